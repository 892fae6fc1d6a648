package handlers

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/middleware"
	"github.com/example/taskflow/internal/models"
	"github.com/example/taskflow/internal/response"
	"github.com/example/taskflow/internal/services"
	"github.com/example/taskflow/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	identity *services.IdentityService
	tokens   *utils.TokenManager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(identity *services.IdentityService, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  *models.Account `json:"user"`
}

type sessionResponse struct {
	utils.Claims
	IssuedAt  string `json:"issuedAt,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Signup creates a new unverified account.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := required(
		field{"name", req.Name},
		field{"email", req.Email},
		field{"password", req.Password},
		field{"city", req.City},
		field{"phone", req.Phone},
	); err != nil {
		return err
	}
	if err := validEmail(req.Email); err != nil {
		return err
	}

	account, err := h.identity.Signup(c.UserContext(), services.SignupInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		City:     strings.TrimSpace(req.City),
		Phone:    strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "User registered successfully. Please verify your email with the OTP sent", account)
}

// Login authenticates an existing user and issues a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := required(field{"email", req.Email}, field{"password", req.Password}); err != nil {
		return err
	}

	account, err := h.identity.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(utils.Claims{UserID: account.ID, Email: account.Email, Name: account.Name})
	if err != nil {
		return apperror.Internal(err)
	}

	return response.Success(c, fiber.StatusOK, "Login successful", authResponse{Token: token, User: account})
}

// VerifyOTP handles account verification codes.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := required(field{"email", req.Email}, field{"otp", req.OTP}); err != nil {
		return err
	}

	account, err := h.identity.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "Email verified successfully", account)
}

// ResendOTP issues a fresh verification code.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := required(field{"email", req.Email}); err != nil {
		return err
	}

	if err := h.identity.ResendOTP(c.UserContext(), req.Email); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "OTP sent successfully", nil)
}

// RequestPasswordReset issues a password reset code.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := required(field{"email", req.Email}); err != nil {
		return err
	}

	if err := h.identity.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "Password reset OTP sent successfully", nil)
}

// ResetPassword sets a new password after a matching reset code.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := required(field{"email", req.Email}, field{"otp", req.OTP}, field{"newPassword", req.NewPassword}); err != nil {
		return err
	}

	if err := h.identity.ResetPassword(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "Password reset successfully", nil)
}

// Session describes the presented token. Identity comes from the verified
// claims; issue and expiry times are read back from the token itself.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperror.Unauthorized(middleware.MsgNoToken)
	}

	out := sessionResponse{Claims: claims}
	if token, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		if decoded, ok := h.tokens.Decode(token); ok {
			if decoded.IssuedAt != nil {
				out.IssuedAt = response.Timestamp(decoded.IssuedAt.Time)
			}
			if decoded.ExpiresAt != nil {
				out.ExpiresAt = response.Timestamp(decoded.ExpiresAt.Time)
			}
		}
	}

	return response.Success(c, fiber.StatusOK, "Session is valid", out)
}

type field struct {
	name  string
	value string
}

// required reports every empty field at once.
func required(fields ...field) error {
	var msgs []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			msgs = append(msgs, f.name+" is required")
		}
	}
	if len(msgs) > 0 {
		return apperror.Validation(msgs...)
	}
	return nil
}

func validEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.Validation("Invalid email format")
	}
	return nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}
