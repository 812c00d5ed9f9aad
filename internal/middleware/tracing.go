package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	traceIDHeader = "X-Trace-Id"
	traceIDLocal  = "trace_id"
)

// Tracing assigns every request a fresh trace ID, stored in Locals for the
// route logger and echoed back in the X-Trace-Id response header.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.New().String()
		c.Locals(traceIDLocal, id)
		c.Set(traceIDHeader, id)
		return c.Next()
	}
}

// GetTraceID returns the request's trace ID, or "" outside Tracing.
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceIDLocal).(string)
	return id
}
