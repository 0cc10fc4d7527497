package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"grambazaar/internal/config"
	"grambazaar/internal/domain"
	"grambazaar/internal/http/handlers"
	applog "grambazaar/internal/log"
	"grambazaar/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal",
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.Principal())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	api := app.Group("/api")

	// Public marketplace read
	api.Get("/listings", deps.ListingHandler.Marketplace)

	// Buyer surface
	checkout := api.Group("/checkout", handlers.RequireRole(domain.RoleBuyer, domain.RoleAdmin))
	checkout.Post("/:listingID", deps.CheckoutHandler.Start)
	checkout.Post("/:listingID/confirm", deps.CheckoutHandler.Confirm)

	orders := api.Group("/orders", handlers.RequireRole(domain.RoleBuyer, domain.RoleAdmin))
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/", deps.OrderHandler.History)
	orders.Get("/:id", deps.OrderHandler.View)
	orders.Post("/:id/cancel", deps.OrderHandler.Cancel)

	// Seller surface
	seller := api.Group("/seller", handlers.RequireRole(domain.RoleSeller))
	seller.Get("/listings", deps.ListingHandler.Mine)
	seller.Post("/listings", deps.ListingHandler.Submit)
	seller.Post("/listings/:id/removal-request", deps.ListingHandler.RequestRemoval)
	seller.Get("/forecast", deps.ForecastHandler.SellerView)

	wallet := api.Group("/wallet", handlers.RequireRole(domain.RoleSeller))
	wallet.Get("/", deps.WalletHandler.View)
	wallet.Get("/export", deps.WalletHandler.Export)

	notifs := api.Group("/notifications", handlers.RequireRole(domain.RoleSeller))
	notifs.Get("/", deps.NotificationHandler.Poll)
	notifs.Post("/:id/read", deps.NotificationHandler.MarkRead)

	// Admin surface
	admin := api.Group("/admin", handlers.RequireRole(domain.RoleAdmin))
	admin.Get("/orders", deps.AdminHandler.Orders100)
	admin.Post("/orders/:id/approve", deps.AdminHandler.ApproveOrder)
	admin.Post("/orders/:id/ship", deps.AdminHandler.ShipOrder)
	admin.Post("/orders/:id/deliver", deps.AdminHandler.DeliverOrder)
	admin.Post("/listings/:id/approve", deps.AdminHandler.ApproveListing)
	admin.Post("/listings/:id/reject", deps.AdminHandler.RejectListing)
	admin.Post("/listings/:id/approve-removal", deps.AdminHandler.ApproveRemoval)
	admin.Post("/listings/:id/reject-removal", deps.AdminHandler.RejectRemoval)
	admin.Get("/forecast", deps.ForecastHandler.Run)

	log.Printf("[server] listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
