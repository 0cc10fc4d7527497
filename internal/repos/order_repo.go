package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"grambazaar/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Summary row used by the admin orders screen.
type OrderSummary struct {
	ID        string             `db:"id"`
	Listing   string             `db:"listing_title"`
	BuyerName string             `db:"buyer_name"`
	Amount    string             `db:"amount"`
	Status    domain.OrderStatus `db:"status"`
	CreatedAt string             `db:"created_at"`
}

// Row used by the demand heatmap: completed orders with their address and
// listing title, within the recent window.
type DemandRow struct {
	ListingID string `db:"listing_id"`
	Title     string `db:"title"`
	Address   string `db:"address"`
}

func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, listing_id, buyer_id, buyer_name, buyer_contact, address, amount, status, created_at)
	  VALUES
	    (?,  ?,          ?,        ?,          ?,             ?,       ?,      ?,      CURRENT_TIMESTAMP)
	`, o.ID, o.ListingID, o.BuyerID, o.BuyerName, o.BuyerContact, o.Address, o.Amount, o.Status)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT * FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, err
}

func (r *OrderRepo) GetTx(tx *sqlx.Tx, id string) (domain.Order, error) {
	var o domain.Order
	err := tx.Get(&o, `SELECT * FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, err
}

func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, id string, status domain.OrderStatus) error {
	res, err := tx.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) ListByBuyer(buyerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT * FROM orders
		WHERE buyer_id = ?
		ORDER BY datetime(created_at) DESC
	`, buyerID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id, l.title AS listing_title, o.buyer_name, o.amount, o.status, o.created_at
		FROM orders o
		JOIN listings l ON l.id = o.listing_id
		ORDER BY datetime(o.created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// CountCompleted counts orders in completed statuses created in [from, to),
// optionally restricted to one listing.
func (r *OrderRepo) CountCompleted(listingID string, from, to time.Time) (int, error) {
	var n int
	args := []any{from.UTC().Format(stampLayout), to.UTC().Format(stampLayout)}
	q := `
		SELECT COUNT(*) FROM orders
		WHERE status IN ('approved','shipped','delivered')
		  AND datetime(created_at) >= datetime(?)
		  AND datetime(created_at) <  datetime(?)
	`
	if listingID != "" {
		q += ` AND listing_id = ?`
		args = append(args, listingID)
	}
	err := r.db.Get(&n, q, args...)
	return n, err
}

// CompletedSince returns completed orders created at or after the cutoff,
// with listing titles, for the geographic heatmap.
func (r *OrderRepo) CompletedSince(listingID string, from time.Time) ([]DemandRow, error) {
	var out []DemandRow
	args := []any{from.UTC().Format(stampLayout)}
	q := `
		SELECT o.listing_id, l.title, o.address
		FROM orders o
		JOIN listings l ON l.id = o.listing_id
		WHERE o.status IN ('approved','shipped','delivered')
		  AND datetime(o.created_at) >= datetime(?)
	`
	if listingID != "" {
		q += ` AND o.listing_id = ?`
		args = append(args, listingID)
	}
	q += ` ORDER BY datetime(o.created_at) DESC`
	err := r.db.Select(&out, q, args...)
	return out, err
}
