package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"grambazaar/internal/domain"
	applog "grambazaar/internal/log"
)

// failure maps the core error taxonomy onto HTTP codes. Unknown errors are
// logged and surfaced as 500 without leaking internals.
func failure(c *fiber.Ctx, action string, err error) error {
	type httpErr struct {
		code int
		tag  string
	}
	known := []struct {
		err error
		httpErr
	}{
		{domain.ErrOutOfStock, httpErr{fiber.StatusConflict, "out_of_stock"}},
		{domain.ErrListingNotLive, httpErr{fiber.StatusConflict, "listing_not_live"}},
		{domain.ErrInvalidTransition, httpErr{fiber.StatusConflict, "invalid_transition"}},
		{domain.ErrReservationExpired, httpErr{fiber.StatusConflict, "reservation_expired"}},
		{domain.ErrForbidden, httpErr{fiber.StatusForbidden, "forbidden"}},
		{domain.ErrNotFound, httpErr{fiber.StatusNotFound, "not_found"}},
		{domain.ErrValidation, httpErr{fiber.StatusBadRequest, "invalid_input"}},
	}
	for _, k := range known {
		if errors.Is(err, k.err) {
			applog.Security(c, action, map[string]any{"error": k.tag})
			return c.Status(k.code).JSON(fiber.Map{"error": k.tag, "message": k.err.Error()})
		}
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal",
		"message": "Something went wrong. Please try again.",
	})
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "invalid_input",
		"message": "invalid " + field,
	})
}
