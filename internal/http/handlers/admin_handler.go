package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "grambazaar/internal/log"
	"grambazaar/internal/repos"
	"grambazaar/internal/services"
	"grambazaar/internal/validate"
)

type AdminHandler struct {
	Orders   *services.OrderService
	Listings *services.ListingService
	Repo     *repos.OrderRepo
}

// GET /api/admin/orders
func (h *AdminHandler) Orders100(c *fiber.Ctx) error {
	ords, err := h.Repo.ListLatest(100)
	if err != nil {
		return failure(c, "admin.orders.list.fail", err)
	}
	return c.JSON(fiber.Map{"orders": ords})
}

// POST /api/admin/orders/:id/approve — credits the seller wallet once.
func (h *AdminHandler) ApproveOrder(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	o, err := h.Orders.Approve(oid)
	if err != nil {
		return failure(c, "admin.orders.approve.fail", err)
	}
	applog.Audit(c, "admin.orders.approve", map[string]any{"order_id": o.ID, "amount": o.Amount})
	return c.JSON(o)
}

// POST /api/admin/orders/:id/ship
func (h *AdminHandler) ShipOrder(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	o, err := h.Orders.Ship(oid)
	if err != nil {
		return failure(c, "admin.orders.ship.fail", err)
	}
	applog.Audit(c, "admin.orders.ship", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}

// POST /api/admin/orders/:id/deliver
func (h *AdminHandler) DeliverOrder(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	o, err := h.Orders.Deliver(oid)
	if err != nil {
		return failure(c, "admin.orders.deliver.fail", err)
	}
	applog.Audit(c, "admin.orders.deliver", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}

// POST /api/admin/listings/:id/approve | reject | approve-removal | reject-removal

func (h *AdminHandler) ApproveListing(c *fiber.Ctx) error {
	return h.listingAction(c, "admin.listings.approve", h.Listings.Approve)
}

func (h *AdminHandler) RejectListing(c *fiber.Ctx) error {
	return h.listingAction(c, "admin.listings.reject", h.Listings.Reject)
}

func (h *AdminHandler) ApproveRemoval(c *fiber.Ctx) error {
	return h.listingAction(c, "admin.listings.approve_removal", h.Listings.ApproveRemoval)
}

func (h *AdminHandler) RejectRemoval(c *fiber.Ctx) error {
	return h.listingAction(c, "admin.listings.reject_removal", h.Listings.RejectRemoval)
}

func (h *AdminHandler) listingAction(c *fiber.Ctx, action string, fn func(string) error) error {
	lid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := fn(lid); err != nil {
		return failure(c, action+".fail", err)
	}
	applog.Audit(c, action, map[string]any{"listing_id": lid})
	return c.JSON(fiber.Map{"success": true})
}
