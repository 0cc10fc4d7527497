package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "grambazaar/internal/log"
	"grambazaar/internal/services"
	"grambazaar/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderRequest struct {
	ListingID    string `json:"listing_id"`
	BuyerName    string `json:"buyer_name"`
	BuyerContact string `json:"buyer_contact"`
	Address      string `json:"address"`
}

// POST /api/orders — direct placement without the checkout reservation.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	info, field, ok := buyerInfoFrom(req.BuyerName, req.BuyerContact, req.Address)
	if !ok {
		return badRequest(c, field)
	}
	listingID, ok := validate.ID(req.ListingID)
	if !ok {
		return badRequest(c, "listing_id")
	}

	o, err := h.Orders.Place(actor(c).ID, listingID, info, "")
	if err != nil {
		return failure(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "listing_id": o.ListingID, "amount": o.Amount})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	o, err := h.Orders.Get(oid, actor(c))
	if err != nil {
		return failure(c, "order.view.fail", err)
	}
	return c.JSON(o)
}

// GET /api/orders — the caller's order history.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.Orders.ListByBuyer(actor(c).ID)
	if err != nil {
		return failure(c, "order.history.fail", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// POST /api/orders/:id/cancel — buyer-initiated, pending orders only.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	o, err := h.Orders.Cancel(oid, actor(c).ID)
	if err != nil {
		return failure(c, "order.cancel.fail", err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}

func buyerInfoFrom(name, contact, address string) (services.BuyerInfo, string, bool) {
	n, ok := validate.Name(name)
	if !ok {
		return services.BuyerInfo{}, "buyer_name", false
	}
	p, ok := validate.Phone(contact)
	if !ok {
		return services.BuyerInfo{}, "buyer_contact", false
	}
	a, ok := validate.Address(address)
	if !ok {
		return services.BuyerInfo{}, "address", false
	}
	return services.BuyerInfo{Name: n, Contact: p, Address: a}, "", true
}
