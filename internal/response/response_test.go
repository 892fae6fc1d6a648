package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2025, 10, 17, 10, 30, 0, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "2025-10-17T09:30:00.000Z", Timestamp(ts))
}

func TestEnvelopes(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, "created", fiber.Map{"id": 1})
	})
	app.Get("/page", func(c *fiber.Ctx) error {
		return Paginated(c, "listed", []int{1, 2}, Meta{Total: 12, Page: 2, Limit: 2, TotalPages: 6})
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return Failure(c, fiber.StatusBadRequest, []string{"a", "b"}, "Bad Request")
	})

	status, body := decode(t, app, "/ok")
	assert.Equal(t, 201, status)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, float64(201), body["statusCode"])
	assert.Equal(t, "created", body["message"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "meta")

	status, body = decode(t, app, "/page")
	assert.Equal(t, 200, status)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(12), meta["total"])
	assert.Equal(t, float64(6), meta["totalPages"])

	status, body = decode(t, app, "/fail")
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, []any{"a", "b"}, body["message"])
	assert.Equal(t, "Bad Request", body["error"])
	assert.NotContains(t, body, "data")
}
