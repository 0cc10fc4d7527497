package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "grambazaar/internal/log"
	"grambazaar/internal/services"
	"grambazaar/internal/validate"
)

type NotificationHandler struct {
	Notifs *services.NotificationService
}

// GET /api/notifications — unread for the calling seller, newest first.
func (h *NotificationHandler) Poll(c *fiber.Ctx) error {
	notifs, err := h.Notifs.Poll(actor(c).ID)
	if err != nil {
		return failure(c, "notifications.poll.fail", err)
	}
	return c.JSON(fiber.Map{"notifications": notifs})
}

// POST /api/notifications/:id/read — idempotent.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	nid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Notifs.MarkRead(nid, actor(c).ID); err != nil {
		return failure(c, "notifications.read.fail", err)
	}
	applog.Info(c, "notifications.read", map[string]any{"notification_id": nid})
	return c.JSON(fiber.Map{"success": true})
}
