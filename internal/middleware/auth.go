package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/utils"
)

const (
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid or expired token"
)

type currentUserKey struct{}

// AuthMiddleware validates bearer tokens and loads the verified claims into
// the request context. Both verification failures and expiry report the same
// message.
func AuthMiddleware(tokens *utils.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperror.Unauthorized(MsgNoToken)
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			return apperror.Unauthorized(MsgInvalidToken)
		}

		c.Locals(currentUserKey{}, claims)
		return c.Next()
	}
}

// BearerToken extracts the token from a "Bearer <token>" header value. The
// scheme is case-sensitive and the value must have exactly two parts.
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the claims attached by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (utils.Claims, bool) {
	claims, ok := c.Locals(currentUserKey{}).(utils.Claims)
	return claims, ok
}
