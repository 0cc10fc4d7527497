package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "grambazaar/internal/log"
	"grambazaar/internal/services"
	"grambazaar/internal/validate"
)

type ForecastHandler struct {
	Forecast *services.ForecastService
}

// GET /api/forecast?notify=1&listing=<id> — admin run; notify mode persists
// alerts as seller notifications.
func (h *ForecastHandler) Run(c *fiber.Ctx) error {
	notify := c.Query("notify") == "1"
	listingID := ""
	if q := c.Query("listing"); q != "" {
		id, ok := validate.ID(q)
		if !ok {
			return badRequest(c, "listing")
		}
		listingID = id
	}

	report, err := h.Forecast.Run(notify, listingID)
	if err != nil {
		return failure(c, "forecast.run.fail", err)
	}
	applog.Audit(c, "forecast.run", map[string]any{
		"notify":  notify,
		"listing": listingID,
		"alerts":  len(report.Alerts),
	})
	return c.JSON(report)
}

// GET /api/seller/forecast?listing=<id> — read-only view for sellers; never
// persists notifications.
func (h *ForecastHandler) SellerView(c *fiber.Ctx) error {
	listingID := ""
	if q := c.Query("listing"); q != "" {
		id, ok := validate.ID(q)
		if !ok {
			return badRequest(c, "listing")
		}
		listingID = id
	}
	report, err := h.Forecast.Run(false, listingID)
	if err != nil {
		return failure(c, "forecast.seller.fail", err)
	}
	return c.JSON(report)
}
