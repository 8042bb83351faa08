package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(common.RequestIDFromContext(c.UserContext()))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, rid, string(body))
	})

	t.Run("keeps an incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "test-id-123", resp.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "test-id-123", string(body))
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(logger))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test?api_key=sk-secret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "http.request", rec["msg"])
	assert.NotEmpty(t, rec["req_id"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/test", rec["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), rec["status"])
	assert.Contains(t, rec, "elapsed_ms")
	assert.NotContains(t, buf.String(), "sk-secret")
}

func TestPrometheusMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	app.Get("/docs/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/error", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "bad") })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, p := range []string{"/docs/1", "/docs/2", "/error", "/metrics"} {
		_, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/docs/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/error", "400")))
	assert.Equal(t, 2, testutil.CollectAndCount(pm.requestCount))
	assert.Equal(t, 2, testutil.CollectAndCount(pm.requestDuration))

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err, "second registration on the same registry must fail")
}
