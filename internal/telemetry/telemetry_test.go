package telemetry

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spockey4711/trainingbuilder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitializeDisabled(t *testing.T) {
	provider, err := Initialize(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, provider)
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.OTELConfig
		want string
	}{
		{"basic auth", config.OTELConfig{InstanceID: "123", Token: "secret"}, "Basic MTIzOnNlY3JldA=="},
		{"bearer", config.OTELConfig{Token: "secret"}, "Bearer secret"},
		{"none", config.OTELConfig{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromConfig(tt.cfg).OTLPHeaders["Authorization"])
		})
	}
}

func TestTraceRequestsSetsTraceID(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	app := fiber.New()
	app.Use(TraceRequests(nil))
	app.Get("/ping", func(c *fiber.Ctx) error {
		assert.True(t, SpanFromContext(c).SpanContext().IsValid())
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Trace-ID"), 32)
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTraceRequestsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	app := fiber.New()
	app.Use(TraceRequests(func(c *fiber.Ctx) string {
		id, _ := c.Locals("athlete").(string)
		return id
	}))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("athlete", "athlete-1")
		return c.Next()
	})
	app.Get("/v1/me/plans/:id", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false})
	})
	app.Post("/v1/me/plans/:id/apply", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false})
	})

	req := httptest.NewRequest("GET", "/v1/me/plans/65f0c0ffee", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/v1/me/plans/65f0c0ffee/apply", nil)
	req.Header.Set("X-Correlation-ID", "week-10")
	_, err = app.Test(req, -1)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	notFound := spans[0]
	assert.Equal(t, "GET /v1/me/plans/:id", notFound.Name())
	assert.Equal(t, codes.Unset, notFound.Status().Code)
	attrs := spanAttrs(notFound)
	assert.Equal(t, "/v1/me/plans/:id", attrs["http.route"].AsString())
	assert.Equal(t, int64(404), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, "athlete-1", attrs[AthleteIDKey].AsString())

	upstream := spans[1]
	assert.Equal(t, "POST /v1/me/plans/:id/apply", upstream.Name())
	assert.Equal(t, codes.Error, upstream.Status().Code)
	assert.Equal(t, "week-10", spanAttrs(upstream)[CorrelationIDKey].AsString())
}
