package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grambazaar/internal/config"
	"grambazaar/internal/domain"
	"grambazaar/internal/http/handlers"
	"grambazaar/internal/repos"
	"grambazaar/internal/services"
)

// newTestApp wires the same route table as the server binary over a seeded
// in-memory database.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, config.Config{ReservationTTL: 15 * time.Minute})

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(handlers.Principal())

	api := app.Group("/api")
	api.Get("/listings", deps.ListingHandler.Marketplace)

	checkout := api.Group("/checkout", handlers.RequireRole(domain.RoleBuyer, domain.RoleAdmin))
	checkout.Post("/:listingID", deps.CheckoutHandler.Start)
	checkout.Post("/:listingID/confirm", deps.CheckoutHandler.Confirm)

	orders := api.Group("/orders", handlers.RequireRole(domain.RoleBuyer, domain.RoleAdmin))
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/", deps.OrderHandler.History)
	orders.Get("/:id", deps.OrderHandler.View)
	orders.Post("/:id/cancel", deps.OrderHandler.Cancel)

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

	return app
}

func request(t *testing.T, app *fiber.App, method, path, actorID, role string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if actorID != "" {
		req.Header.Set(handlers.HeaderActorID, actorID)
		req.Header.Set(handlers.HeaderActorRole, role)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

var orderBody = fiber.Map{
	"listing_id":    "lst-basket",
	"buyer_name":    "Ravi Kumar",
	"buyer_contact": "+91 98765 43210",
	"address":       "12 MG Road, Andheri, Mumbai, 400001",
}

func TestAPI_RoleGuards(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, "GET", "/api/wallet", "", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, "GET", "/api/wallet", "buyer-1", domain.RoleBuyer, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, "GET", "/api/wallet", "shg-asha", domain.RoleSeller, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "GET", "/api/admin/orders", "shg-asha", domain.RoleSeller, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// marketplace read stays public
	resp = request(t, app, "GET", "/api/listings", "", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPI_OrderLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, "POST", "/api/orders", "buyer-9", domain.RoleBuyer, orderBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var placed domain.Order
	decodeInto(t, resp, &placed)
	assert.Equal(t, domain.OrderPendingApproval, placed.Status)
	assert.True(t, placed.Amount.Equal(decimal.RequireFromString("449.00")), "amount %s", placed.Amount)

	// visible to the buyer of record, hidden from others
	resp = request(t, app, "GET", "/api/orders/"+placed.ID, "buyer-9", domain.RoleBuyer, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = request(t, app, "GET", "/api/orders/"+placed.ID, "buyer-2", domain.RoleBuyer, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = request(t, app, "POST", "/api/admin/orders/"+placed.ID+"/approve", "admin-1", domain.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// approval credited the owning seller exactly once
	resp = request(t, app, "GET", "/api/wallet", "shg-asha", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view services.WalletView
	decodeInto(t, resp, &view)
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("449.00")), "balance %s", view.Balance)
	require.Len(t, view.Entries, 2) // placement placeholder + sale credit
	assert.True(t, view.Entries[0].Credit.Equal(decimal.RequireFromString("449.00")))

	resp = request(t, app, "POST", "/api/admin/orders/"+placed.ID+"/approve", "admin-1", domain.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// approved orders can no longer be cancelled by the buyer
	resp = request(t, app, "POST", "/api/orders/"+placed.ID+"/cancel", "buyer-9", domain.RoleBuyer, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = request(t, app, "POST", "/api/admin/orders/"+placed.ID+"/ship", "admin-1", domain.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = request(t, app, "POST", "/api/admin/orders/"+placed.ID+"/deliver", "admin-1", domain.RoleAdmin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPI_PlaceOrderValidation(t *testing.T) {
	app := newTestApp(t)

	bad := fiber.Map{
		"listing_id":    "lst-basket",
		"buyer_name":    "Ravi Kumar",
		"buyer_contact": "not-a-phone",
		"address":       "12 MG Road, Mumbai",
	}
	resp := request(t, app, "POST", "/api/orders", "buyer-9", domain.RoleBuyer, bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	missing := fiber.Map{
		"listing_id":    "lst-missing",
		"buyer_name":    "Ravi Kumar",
		"buyer_contact": "+91 98765 43210",
		"address":       "12 MG Road, Mumbai",
	}
	resp = request(t, app, "POST", "/api/orders", "buyer-9", domain.RoleBuyer, missing)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// seeded pending listing is not purchasable
	pending := fiber.Map{
		"listing_id":    "lst-diya",
		"buyer_name":    "Ravi Kumar",
		"buyer_contact": "+91 98765 43210",
		"address":       "12 MG Road, Mumbai",
	}
	resp = request(t, app, "POST", "/api/orders", "buyer-9", domain.RoleBuyer, pending)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAPI_CheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, "POST", "/api/checkout/lst-pickle", "buyer-3", domain.RoleBuyer, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var res domain.Reservation
	decodeInto(t, resp, &res)
	assert.Equal(t, "lst-pickle", res.ListingID)

	confirm := fiber.Map{
		"buyer_name":     "Sita Devi",
		"buyer_contact":  "+91 91234 56789",
		"address":        "Ward 3, Gandhi Chowk, Nagpur, 440001",
		"payment_method": "upi",
	}
	resp = request(t, app, "POST", "/api/checkout/lst-pickle/confirm", "buyer-3", domain.RoleBuyer, confirm)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var o domain.Order
	decodeInto(t, resp, &o)
	assert.Equal(t, domain.OrderPendingApproval, o.Status)
	assert.True(t, o.Amount.Equal(decimal.RequireFromString("249.00")))

	// confirming without an open reservation is rejected
	resp = request(t, app, "POST", "/api/checkout/lst-dupatta/confirm", "buyer-3", domain.RoleBuyer, confirm)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAPI_WalletExportCSV(t *testing.T) {
	app := newTestApp(t)

	resp := request(t, app, "POST", "/api/orders", "buyer-9", domain.RoleBuyer, orderBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var placed domain.Order
	decodeInto(t, resp, &placed)
	resp = request(t, app, "POST", "/api/admin/orders/"+placed.ID+"/approve", "admin-1", domain.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "GET", "/api/wallet/export", "shg-asha", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "ledger_shg-asha.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3) // header + credit + placement placeholder
	assert.Equal(t, "Date,Description,Credit,Debit,Balance After", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "449.00")
}

func TestAPI_ForecastAndNotifications(t *testing.T) {
	app := newTestApp(t)

	// notify run: lst-dupatta (inventory 3) fires a low stock alert for shg-kala
	resp := request(t, app, "GET", "/api/admin/forecast?notify=1", "admin-1", domain.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report services.Report
	decodeInto(t, resp, &report)
	require.NotEmpty(t, report.Alerts)

	resp = request(t, app, "GET", "/api/notifications", "shg-kala", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var poll struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	decodeInto(t, resp, &poll)
	require.Len(t, poll.Notifications, 1)
	assert.Equal(t, "Low Inventory Alert", poll.Notifications[0].Title)

	resp = request(t, app, "POST", "/api/notifications/"+poll.Notifications[0].ID+"/read", "shg-kala", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "GET", "/api/notifications", "shg-kala", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &poll)
	assert.Empty(t, poll.Notifications)

	// seller view never persists alerts: the unread set stays as the notify
	// run left it (one seasonal insight for the food seller)
	resp = request(t, app, "GET", "/api/notifications", "shg-annapurna", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &poll)
	before := len(poll.Notifications)
	require.Equal(t, 1, before)
	assert.Equal(t, "Seasonal Demand Insight", poll.Notifications[0].Title)

	resp = request(t, app, "GET", "/api/seller/forecast", "shg-annapurna", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = request(t, app, "GET", "/api/notifications", "shg-annapurna", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &poll)
	assert.Len(t, poll.Notifications, before)
}

func TestAPI_ListingModeration(t *testing.T) {
	app := newTestApp(t)

	submit := fiber.Map{
		"title":       "Clay Water Pot",
		"description": "Hand thrown clay pot",
		"price":       "349.00",
		"category":    "pottery",
		"inventory":   6,
	}
	resp := request(t, app, "POST", "/api/seller/listings", "shg-kala", domain.RoleSeller, submit)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var lst domain.Listing
	decodeInto(t, resp, &lst)
	assert.Equal(t, domain.ListingPending, lst.Status)

	// not in the marketplace until approved
	resp = request(t, app, "GET", "/api/listings?category=pottery", "", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var market struct {
		Listings []domain.Listing `json:"listings"`
	}
	decodeInto(t, resp, &market)
	assert.Empty(t, market.Listings)

	resp = request(t, app, "POST", "/api/admin/listings/"+lst.ID+"/approve", "admin-1", domain.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "GET", "/api/listings?category=pottery", "", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &market)
	require.Len(t, market.Listings, 1)
	assert.Equal(t, lst.ID, market.Listings[0].ID)

	// removal flow: only the owner may request it
	resp = request(t, app, "POST", "/api/seller/listings/"+lst.ID+"/removal-request", "shg-asha", domain.RoleSeller, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp = request(t, app, "POST", "/api/seller/listings/"+lst.ID+"/removal-request", "shg-kala", domain.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = request(t, app, "POST", "/api/admin/listings/"+lst.ID+"/approve-removal", "admin-1", domain.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = request(t, app, "GET", "/api/listings?category=pottery", "", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &market)
	assert.Empty(t, market.Listings)
}
