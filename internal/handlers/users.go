package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/models"
	"github.com/example/taskflow/internal/response"
	"github.com/example/taskflow/internal/services"
	"github.com/example/taskflow/internal/utils"
)

// UserHandler lists accounts for signed-in callers.
type UserHandler struct {
	identity *services.IdentityService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(identity *services.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// ListUsers supports ?active=, ?verified=, ?search=, ?sort=asc|desc, ?page=, ?limit=.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	active, err := optionalBool(c, "active")
	if err != nil {
		return err
	}
	verified, err := optionalBool(c, "verified")
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	accounts, total, err := h.identity.ListAccounts(c.UserContext(), services.AccountQuery{
		Active:   active,
		Verified: verified,
		Search:   c.Query("search"),
		SortDesc: strings.EqualFold(c.Query("sort", "desc"), "desc"),
		Page:     pg,
	})
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	return response.Paginated(c, "Users fetched successfully", accounts, response.Meta{
		Total:      total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: pg.TotalPages(total),
	})
}

func optionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Validation(key + " must be a boolean")
	}
	return &v, nil
}
