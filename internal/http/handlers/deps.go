package handlers

import (
	"github.com/jmoiron/sqlx"

	"grambazaar/internal/config"
	"grambazaar/internal/repos"
	"grambazaar/internal/services"
)

type Deps struct {
	OrderHandler        *OrderHandler
	CheckoutHandler     *CheckoutHandler
	WalletHandler       *WalletHandler
	ForecastHandler     *ForecastHandler
	NotificationHandler *NotificationHandler
	ListingHandler      *ListingHandler
	AdminHandler        *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	sellerRepo := repos.NewSellerRepo(db)
	listingRepo := repos.NewListingRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	ledgerRepo := repos.NewLedgerRepo(db)
	notifRepo := repos.NewNotificationRepo(db)
	resRepo := repos.NewReservationRepo(db)

	orderSvc := services.NewOrderService(db, listingRepo, orderRepo, ledgerRepo)
	checkoutSvc := services.NewCheckoutService(listingRepo, resRepo, orderSvc, services.StubPayments{}, cfg.ReservationTTL)
	walletSvc := services.NewWalletService(ledgerRepo)
	forecastSvc := services.NewForecastService(listingRepo, orderRepo, sellerRepo, notifRepo)
	notifSvc := services.NewNotificationService(notifRepo)
	listingSvc := services.NewListingService(listingRepo, sellerRepo)

	return &Deps{
		OrderHandler:        &OrderHandler{Orders: orderSvc},
		CheckoutHandler:     &CheckoutHandler{Checkout: checkoutSvc},
		WalletHandler:       &WalletHandler{Wallet: walletSvc},
		ForecastHandler:     &ForecastHandler{Forecast: forecastSvc},
		NotificationHandler: &NotificationHandler{Notifs: notifSvc},
		ListingHandler:      &ListingHandler{Listings: listingSvc},
		AdminHandler:        &AdminHandler{Orders: orderSvc, Listings: listingSvc, Repo: orderRepo},
	}
}
