package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"grambazaar/internal/domain"
	applog "grambazaar/internal/log"
	"grambazaar/internal/services"
	"grambazaar/internal/validate"
)

type ListingHandler struct {
	Listings *services.ListingService
}

// GET /api/listings?category= — the public marketplace read.
func (h *ListingHandler) Marketplace(c *fiber.Ctx) error {
	category := c.Query("category")
	if category != "" && !domain.ValidCategory(category) {
		return badRequest(c, "category")
	}
	listings, err := h.Listings.Listings.ListLive(category)
	if err != nil {
		return failure(c, "listings.list.fail", err)
	}
	return c.JSON(fiber.Map{"listings": listings})
}

type submitListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	ImagePath   string `json:"image_path"`
	Inventory   int    `json:"inventory"`
}

// POST /api/seller/listings — submit for admin approval.
func (h *ListingHandler) Submit(c *fiber.Ctx) error {
	var req submitListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	title, ok := validate.Title(req.Title)
	if !ok {
		return badRequest(c, "title")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return badRequest(c, "price")
	}

	l, err := h.Listings.Submit(actor(c).ID, services.ListingSubmission{
		Title:       title,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		ImagePath:   req.ImagePath,
		Inventory:   req.Inventory,
	})
	if err != nil {
		return failure(c, "listings.submit.fail", err)
	}
	applog.Audit(c, "listings.submit", map[string]any{"listing_id": l.ID})
	return c.Status(fiber.StatusCreated).JSON(l)
}

// GET /api/seller/listings — the seller's own catalog, any status.
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	listings, err := h.Listings.Listings.ListBySeller(actor(c).ID)
	if err != nil {
		return failure(c, "listings.mine.fail", err)
	}
	return c.JSON(fiber.Map{"listings": listings})
}

// POST /api/seller/listings/:id/removal-request
func (h *ListingHandler) RequestRemoval(c *fiber.Ctx) error {
	lid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Listings.RequestRemoval(actor(c).ID, lid); err != nil {
		return failure(c, "listings.removal.request.fail", err)
	}
	applog.Audit(c, "listings.removal.request", map[string]any{"listing_id": lid})
	return c.JSON(fiber.Map{"success": true})
}
