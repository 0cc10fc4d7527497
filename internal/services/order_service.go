package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"grambazaar/internal/domain"
	"grambazaar/internal/repos"
)

type BuyerInfo struct {
	Name    string
	Contact string
	Address string
}

// OrderService owns the order state machine. Every multi-step mutation
// (reserve + create + ledger append, approve + credit, cancel + release)
// runs as a single transaction so inventory, order status and ledger
// balance stay mutually consistent.
type OrderService struct {
	db       *sqlx.DB
	Listings *repos.ListingRepo
	Orders   *repos.OrderRepo
	Ledger   *repos.LedgerRepo
}

func NewOrderService(db *sqlx.DB, listings *repos.ListingRepo, orders *repos.OrderRepo, ledger *repos.LedgerRepo) *OrderService {
	return &OrderService{db: db, Listings: listings, Orders: orders, Ledger: ledger}
}

// Place creates an order in pending_admin_approval, taking one unit of
// stock and pinning the amount to the listing's current price. Stock is
// re-checked at this final commit point, not only at page load.
func (s *OrderService) Place(buyerID, listingID string, info BuyerInfo, paymentLabel string) (domain.Order, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	l, err := s.Listings.GetTx(tx, listingID)
	if err != nil {
		return domain.Order{}, err
	}
	if l.Status != domain.ListingLive {
		return domain.Order{}, domain.ErrListingNotLive
	}
	if err := s.Listings.Reserve(tx, listingID); err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:           uuid.NewString(),
		ListingID:    l.ID,
		BuyerID:      buyerID,
		BuyerName:    info.Name,
		BuyerContact: info.Contact,
		Address:      info.Address,
		Amount:       l.Price,
		Status:       domain.OrderPendingApproval,
	}
	if err := s.Orders.CreateTx(tx, o); err != nil {
		return domain.Order{}, err
	}

	// Zero-value placeholder keeps the ledger timeline dense; the seller is
	// credited only when the order is approved.
	if paymentLabel == "" {
		paymentLabel = "Card"
	}
	desc := fmt.Sprintf("Order %s - %s (%s, Pending)", shortID(o.ID), l.Title, paymentLabel)
	if _, err := s.Ledger.AppendTx(tx, l.SellerID, today(), desc, decimal.Zero, decimal.Zero); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// Approve moves pending_admin_approval -> approved and credits the seller
// wallet for the order amount, exactly once. A repeated call finds the
// order already approved and fails the transition check, so it can never
// double-credit.
func (s *OrderService) Approve(orderID string) (domain.Order, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanTransitionTo(domain.OrderApproved) {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	if err := s.Orders.UpdateStatusTx(tx, orderID, domain.OrderApproved); err != nil {
		return domain.Order{}, err
	}

	l, err := s.Listings.GetTx(tx, o.ListingID)
	if err != nil {
		return domain.Order{}, err
	}
	desc := fmt.Sprintf("Order %s - %s (Approved)", shortID(o.ID), l.Title)
	if _, err := s.Ledger.AppendTx(tx, l.SellerID, today(), desc, o.Amount, decimal.Zero); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderApproved
	return o, nil
}

// Cancel is only legal from pending_admin_approval and only for the buyer
// of record. It restores the reserved unit and writes an informational
// ledger entry (no payout had occurred).
func (s *OrderService) Cancel(orderID, requesterID string) (domain.Order, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.BuyerID != requesterID {
		return domain.Order{}, domain.ErrForbidden
	}
	if !o.Status.CanTransitionTo(domain.OrderCancelled) {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	if err := s.Orders.UpdateStatusTx(tx, orderID, domain.OrderCancelled); err != nil {
		return domain.Order{}, err
	}
	if err := s.Listings.Release(tx, o.ListingID); err != nil {
		return domain.Order{}, err
	}

	l, err := s.Listings.GetTx(tx, o.ListingID)
	if err != nil {
		return domain.Order{}, err
	}
	desc := fmt.Sprintf("Order %s - %s (Cancelled by buyer)", shortID(o.ID), l.Title)
	if _, err := s.Ledger.AppendTx(tx, l.SellerID, today(), desc, decimal.Zero, decimal.Zero); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderCancelled
	return o, nil
}

// Ship and Deliver are plain administrative progressions guarded by the
// transition table; no money moves.

func (s *OrderService) Ship(orderID string) (domain.Order, error) {
	return s.progress(orderID, domain.OrderShipped)
}

func (s *OrderService) Deliver(orderID string) (domain.Order, error) {
	return s.progress(orderID, domain.OrderDelivered)
}

func (s *OrderService) progress(orderID string, next domain.OrderStatus) (domain.Order, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanTransitionTo(next) {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	if err := s.Orders.UpdateStatusTx(tx, orderID, next); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	o.Status = next
	return o, nil
}

// Get enforces ownership: buyers see their own orders, admins see all.
func (s *OrderService) Get(orderID string, actor domain.Actor) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if actor.Role != domain.RoleAdmin && o.BuyerID != actor.ID {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func today() string { return time.Now().UTC().Format("2006-01-02") }
