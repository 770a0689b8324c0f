package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"
)

// VisitorKey is both the session key and the Locals key for the visitor id.
const VisitorKey = "visitor"

// Visitor assigns each browser a stable random id kept in its session.
// Recent searches are stored per visitor, the way browser-local storage
// is per browser. Without a session the id is empty and state is shared.
func Visitor(c fiber.Ctx) error {
	var id string
	if sess := session.FromContext(c); sess != nil {
		id, _ = sess.Get(VisitorKey).(string)
		if id == "" {
			id = uuid.NewString()
			sess.Set(VisitorKey, id)
		}
	}

	c.Locals(VisitorKey, id)
	return c.Next()
}

// VisitorID returns the id set by Visitor.
func VisitorID(c fiber.Ctx) string {
	id, _ := c.Locals(VisitorKey).(string)
	return id
}
