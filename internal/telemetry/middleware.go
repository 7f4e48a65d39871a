package telemetry

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "trainingbuilder-api"

	correlationIDHeader = "X-Correlation-ID"
	replayHeader        = "X-Idempotent-Replay"
	traceIDHeader       = "X-Trace-ID"

	// method fiber records on app.Use routes
	useMethod = "USE"

	AthleteIDKey     = attribute.Key("athlete.id")
	CorrelationIDKey = attribute.Key("request.correlation_id")
	ReplayedKey      = attribute.Key("idempotency.replayed")
)

// TraceRequests opens a server span per request. The span is named after the
// matched route template so plan and workout ids do not fan out span names.
// athleteID reads the authenticated athlete once the handler chain has run;
// it may be nil.
func TraceRequests(athleteID func(*fiber.Ctx) string) fiber.Handler {
	tracer := otel.Tracer(tracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *fiber.Ctx) error {
		ctx := propagator.Extract(c.UserContext(), requestCarrier(c))
		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.URLPath(c.Path()),
				semconv.ServerAddress(c.Hostname()),
				semconv.ClientAddress(c.IP()),
				semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(traceIDHeader, sc.TraceID().String())
		}
		if id := c.Get(correlationIDHeader); id != "" {
			span.SetAttributes(CorrelationIDKey.String(id))
		}

		err := c.Next()

		route := routeTemplate(c)
		span.SetName(c.Method() + " " + route)
		status := c.Response().StatusCode()
		span.SetAttributes(
			semconv.HTTPRoute(route),
			semconv.HTTPResponseStatusCode(status),
			semconv.HTTPResponseBodySize(len(c.Response().Body())),
		)
		if athleteID != nil {
			if id := athleteID(c); id != "" {
				span.SetAttributes(AthleteIDKey.String(id))
			}
		}
		if string(c.Response().Header.Peek(replayHeader)) == "true" {
			span.SetAttributes(ReplayedKey.Bool(true))
		}

		// client errors leave a server span unset
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
		}
		return err
	}
}

// SpanFromContext gets the request span from the Fiber context
func SpanFromContext(c *fiber.Ctx) trace.Span {
	return trace.SpanFromContext(c.UserContext())
}

func routeTemplate(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Method != useMethod {
		return r.Path
	}
	return c.Path()
}

// requestCarrier adapts the fasthttp request headers for the propagator
func requestCarrier(c *fiber.Ctx) propagation.MapCarrier {
	carrier := propagation.MapCarrier{}
	c.Request().Header.VisitAll(func(key, value []byte) {
		carrier[strings.ToLower(string(key))] = string(value)
	})
	return carrier
}
