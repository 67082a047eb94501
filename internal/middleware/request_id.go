package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"
const requestIDLocal = "request_id"

// RequestID tags each request with an id for log correlation. An inbound
// X-Request-Id (from the proxy or a retrying client) is kept so one logical
// request stays one id across hops; otherwise a new one is minted.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Locals(requestIDLocal, id)
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or "" outside it.
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDLocal).(string); ok {
		return id
	}
	return ""
}
