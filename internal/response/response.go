// Package response writes the envelope every endpoint returns, success or
// failure:
//
//	{status, statusCode, message, timestamp, error?, data?, meta?}
package response

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response body. Message is a string or []string.
type Envelope struct {
	Status     bool   `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Timestamp  string `json:"timestamp"`
	Error      string `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
	Meta       *Meta  `json:"meta,omitempty"`
}

// Meta describes one page of a list.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t the way the envelope carries it (UTC, milliseconds).
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Success writes a successful envelope.
func Success(c *fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(Envelope{
		Status:     true,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  Timestamp(time.Now()),
		Data:       data,
	})
}

// Paginated writes a 200 envelope carrying one page of data and its meta.
func Paginated(c *fiber.Ctx, message string, data any, meta Meta) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Status:     true,
		StatusCode: fiber.StatusOK,
		Message:    message,
		Timestamp:  Timestamp(time.Now()),
		Data:       data,
		Meta:       &meta,
	})
}

// Failure writes an error envelope. Only the error handler calls it.
func Failure(c *fiber.Ctx, statusCode int, message any, errText string) error {
	return c.Status(statusCode).JSON(Envelope{
		Status:     false,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  Timestamp(time.Now()),
		Error:      errText,
	})
}
