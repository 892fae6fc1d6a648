package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jinzhu/inflection"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/taskflow/internal/apperror"
	"github.com/example/taskflow/internal/logging"
	"github.com/example/taskflow/internal/repository"
	"github.com/example/taskflow/internal/response"
)

const msgInternal = "Internal server error"

// Failure is a translated error, ready to be written as an envelope.
type Failure struct {
	StatusCode int
	Message    any
	Error      string
	// Unexpected marks failures whose detail was withheld and must be logged.
	Unexpected bool
}

// ErrorHandler is the fiber.Config.ErrorHandler: every error returned by a
// handler or middleware leaves the process through here.
func ErrorHandler(log logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		f := TranslateError(err)
		if f.Unexpected {
			log.Error(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", requestID(c),
				"status", f.StatusCode,
				"error", err.Error(),
			)
		}
		return response.Failure(c, f.StatusCode, f.Message, f.Error)
	}
}

// TranslateError maps any error onto a status, client message and category.
func TranslateError(err error) Failure {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return Failure{
			StatusCode: appErr.Status,
			Message:    appErr.Message(),
			Error:      http.StatusText(appErr.Status),
			Unexpected: appErr.Kind == apperror.KindInternal,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Failure{
			StatusCode: fiberErr.Code,
			Message:    fiberErr.Message,
			Error:      statusText(fiberErr.Code),
			Unexpected: fiberErr.Code >= http.StatusInternalServerError,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translateConstraint(string(pgErr.Code), pgErr.TableName, pgErr.ConstraintName, pgErr.Detail)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return translateConstraint(string(pqErr.Code), pqErr.Table, pqErr.Constraint, pqErr.Detail)
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return failure(http.StatusConflict, "Record already exists")
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return failure(http.StatusNotFound, "Record not found")
	}

	f := failure(http.StatusInternalServerError, msgInternal)
	f.Unexpected = true
	return f
}

func translateConstraint(code, table, constraint, detail string) Failure {
	switch code {
	case "23505":
		model := modelName(table)
		fields := violatedFields(table, constraint, detail)
		if len(fields) == 0 {
			return failure(http.StatusConflict, model+" already exists")
		}
		return failure(http.StatusConflict, model+" with this "+strings.Join(fields, ", ")+" already exists")
	case "23503":
		return failure(http.StatusBadRequest, "Foreign key constraint failed")
	case "22001":
		return failure(http.StatusBadRequest, "The provided value is too long for the field")
	case "42P01":
		f := failure(http.StatusInternalServerError, "The table does not exist in the database")
		f.Unexpected = true
		return f
	case "42703":
		f := failure(http.StatusInternalServerError, "The column does not exist in the database")
		f.Unexpected = true
		return f
	default:
		f := failure(http.StatusInternalServerError, "Database operation failed")
		f.Unexpected = true
		return f
	}
}

var detailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

// violatedFields reads the column list from the "Key (a, b)=(...)" detail,
// falling back to gorm's idx_<table>_<column> index naming.
func violatedFields(table, constraint, detail string) []string {
	if m := detailKey.FindStringSubmatch(detail); m != nil {
		var fields []string
		for _, f := range strings.Split(m[1], ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		return fields
	}

	if table != "" {
		if field, ok := strings.CutPrefix(constraint, "idx_"+table+"_"); ok && field != "" {
			return []string{field}
		}
	}
	return nil
}

// modelName reverses gorm's pluralized snake_case table naming, so
// "accounts" becomes "Account" and "addresses" becomes "Address".
func modelName(table string) string {
	if table == "" {
		return "Record"
	}
	parts := strings.Split(inflection.Singular(table), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

func failure(status int, message string) Failure {
	return Failure{StatusCode: status, Message: message, Error: http.StatusText(status)}
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Error"
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
