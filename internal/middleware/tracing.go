package middleware

import (
	"errors"

	"informatch/internal/models"
	"informatch/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TracingMiddleware opens a server span per request, continuing any W3C
// trace parent sent by the client. The span is named after the matched
// route template once the handler chain returns, and tagged with the
// authenticated caller.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := observability.StartRequest(ctx, c.Method(),
			semconv.URLPath(c.Path()),
			semconv.ClientAddress(c.IP()),
			semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
		)
		defer span.End()

		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Locals("traceID", sc.TraceID().String())
			c.Set("X-Trace-ID", sc.TraceID().String())
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			span.SetAttributes(attribute.String("request.id", rid))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		observability.NameRequest(span, c.Method(), matchedRoute(c))
		if userID, ok := UserID(c); ok {
			span.SetAttributes(semconv.EnduserID(userID.String()))
		}

		status := c.Response().StatusCode()
		if err != nil {
			// The app error handler writes the response after this returns.
			span.RecordError(err)
			status = models.StatusFor(err)
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		span.SetAttributes(semconv.HTTPResponseStatusCode(status))
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, utils.StatusMessage(status))
		}
		return err
	}
}

// matchedRoute is the template of the handler that served the request, or
// empty when only middleware ran.
func matchedRoute(c *fiber.Ctx) string {
	r := c.Route()
	if r == nil || r.Method == "USE" {
		return ""
	}
	return r.Path
}
