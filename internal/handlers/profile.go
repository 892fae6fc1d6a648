package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/middleware"
	"github.com/example/taskflow/internal/response"
	"github.com/example/taskflow/internal/services"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	identity *services.IdentityService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(identity *services.IdentityService) *ProfileHandler {
	return &ProfileHandler{identity: identity}
}

// GetProfile returns authenticated user profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return apperror.Unauthorized(middleware.MsgNoToken)
	}

	account, err := h.identity.Profile(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "Profile fetched successfully", account)
}
