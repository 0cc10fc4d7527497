package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "grambazaar/internal/log"
	"grambazaar/internal/services"
	"grambazaar/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

// POST /api/checkout/:listingID — open or refresh a reservation.
func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.Params("listingID"))
	if !ok {
		return badRequest(c, "listing_id")
	}
	res, err := h.Checkout.Start(actor(c).ID, listingID)
	if err != nil {
		return failure(c, "checkout.start.fail", err)
	}
	applog.Info(c, "checkout.start", map[string]any{"listing_id": listingID, "expires_at": res.ExpiresAt})
	return c.Status(fiber.StatusCreated).JSON(res)
}

type confirmRequest struct {
	BuyerName     string `json:"buyer_name"`
	BuyerContact  string `json:"buyer_contact"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"` // card | upi | cod
}

// POST /api/checkout/:listingID/confirm — payment stub, then placement.
func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.Params("listingID"))
	if !ok {
		return badRequest(c, "listing_id")
	}
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	info, field, ok := buyerInfoFrom(req.BuyerName, req.BuyerContact, req.Address)
	if !ok {
		return badRequest(c, field)
	}

	o, err := h.Checkout.Confirm(actor(c).ID, listingID, info, req.PaymentMethod)
	if err != nil {
		return failure(c, "checkout.confirm.fail", err)
	}
	applog.Audit(c, "checkout.confirm", map[string]any{"order_id": o.ID, "listing_id": listingID})
	return c.Status(fiber.StatusCreated).JSON(o)
}
