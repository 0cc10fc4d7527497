package services

import (
	"time"

	"grambazaar/internal/domain"
	"grambazaar/internal/repos"
)

// CheckoutService holds a short-lived reservation between the order form
// and the payment step, keyed by buyer+listing with an expiry. The
// reservation carries no stock: the final Place re-checks inventory.
type CheckoutService struct {
	Listings     *repos.ListingRepo
	Reservations *repos.ReservationRepo
	Orders       *OrderService
	Payments     PaymentProcessor
	TTL          time.Duration
}

func NewCheckoutService(listings *repos.ListingRepo, reservations *repos.ReservationRepo, orders *OrderService, payments PaymentProcessor, ttl time.Duration) *CheckoutService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CheckoutService{Listings: listings, Reservations: reservations, Orders: orders, Payments: payments, TTL: ttl}
}

// Start validates the listing and opens (or refreshes) the buyer's
// reservation for it.
func (s *CheckoutService) Start(buyerID, listingID string) (domain.Reservation, error) {
	_ = s.Reservations.PurgeExpired()

	l, err := s.Listings.Get(listingID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if l.Status != domain.ListingLive {
		return domain.Reservation{}, domain.ErrListingNotLive
	}
	// Advisory check only; the race is closed at Confirm time.
	if l.Inventory <= 0 {
		return domain.Reservation{}, domain.ErrOutOfStock
	}
	return s.Reservations.Upsert(buyerID, listingID, s.TTL)
}

// Confirm runs the payment stub and places the order, consuming the
// reservation.
func (s *CheckoutService) Confirm(buyerID, listingID string, info BuyerInfo, paymentMethod string) (domain.Order, error) {
	res, err := s.Reservations.Get(buyerID, listingID)
	if err != nil {
		return domain.Order{}, domain.ErrReservationExpired
	}
	if expired(res.ExpiresAt) {
		_ = s.Reservations.Delete(buyerID, listingID)
		return domain.Order{}, domain.ErrReservationExpired
	}

	label, err := s.Payments.Charge(buyerID, paymentMethod)
	if err != nil {
		return domain.Order{}, err
	}

	o, err := s.Orders.Place(buyerID, listingID, info, label)
	if err != nil {
		return domain.Order{}, err
	}
	_ = s.Reservations.Delete(buyerID, listingID)
	return o, nil
}

func expired(stamp string) bool {
	t, err := time.Parse("2006-01-02 15:04:05", stamp)
	if err != nil {
		return true
	}
	return time.Now().UTC().After(t)
}

// PaymentProcessor is the external payment collaborator. The bundled stub
// always succeeds; gateway integration is out of scope.
type PaymentProcessor interface {
	Charge(buyerID, method string) (label string, err error)
}

type StubPayments struct{}

func (StubPayments) Charge(_, method string) (string, error) {
	switch method {
	case "upi":
		return "UPI", nil
	case "cod":
		return "Cash on Delivery", nil
	default:
		return "Card", nil
	}
}
