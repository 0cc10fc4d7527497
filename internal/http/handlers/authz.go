package handlers

import (
	"github.com/gofiber/fiber/v2"

	"grambazaar/internal/domain"
	applog "grambazaar/internal/log"
)

// The identity provider sits in front of this service and is trusted: it
// authenticates the caller and forwards the principal in these headers.
// Domain invariants (ownership, transitions) are still enforced here.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

// Principal materializes the forwarded identity into the request context.
func Principal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderActorID)
		role := c.Get(HeaderActorRole)
		if id != "" {
			c.Locals("actor_id", id)
			c.Locals("actor_role", role)
		}
		return c.Next()
	}
}

func actor(c *fiber.Ctx) domain.Actor {
	id, _ := c.Locals("actor_id").(string)
	role, _ := c.Locals("actor_role").(string)
	return domain.Actor{ID: id, Role: role}
}

func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := actor(c)
		if a.ID == "" {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
		}
		for _, r := range roles {
			if a.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": a.Role})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
}
