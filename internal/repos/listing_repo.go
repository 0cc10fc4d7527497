package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"grambazaar/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `SELECT * FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, err
}

// GetTx reads a listing inside the caller's transaction so the status and
// inventory seen are the ones the transaction will commit against.
func (r *ListingRepo) GetTx(tx *sqlx.Tx, id string) (domain.Listing, error) {
	var l domain.Listing
	err := tx.Get(&l, `SELECT * FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, err
}

// ListLive returns published listings, optionally filtered by category.
func (r *ListingRepo) ListLive(category string) ([]domain.Listing, error) {
	var out []domain.Listing
	if category != "" {
		err := r.db.Select(&out, `
			SELECT * FROM listings
			WHERE status = 'live' AND category = ?
			ORDER BY datetime(created_at) DESC
		`, category)
		return out, err
	}
	err := r.db.Select(&out, `
		SELECT * FROM listings
		WHERE status = 'live'
		ORDER BY datetime(created_at) DESC
	`)
	return out, err
}

func (r *ListingRepo) ListBySeller(sellerID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
		SELECT * FROM listings
		WHERE seller_id = ?
		ORDER BY datetime(created_at) DESC
	`, sellerID)
	return out, err
}

func (r *ListingRepo) Create(l domain.Listing) error {
	_, err := r.db.Exec(`
	  INSERT INTO listings
	    (id, seller_id, title, slug, description, price, category, image_path, inventory, status, created_at)
	  VALUES
	    (?,  ?,         ?,     ?,    ?,           ?,     ?,        ?,          ?,         ?,      CURRENT_TIMESTAMP)
	`, l.ID, l.SellerID, l.Title, l.Slug, l.Description, l.Price, l.Category, l.ImagePath, l.Inventory, l.Status)
	return err
}

// Reserve atomically takes one unit of stock. It must run inside the same
// transaction as the order and ledger writes so a failed order never leaks
// a phantom decrement.
func (r *ListingRepo) Reserve(tx *sqlx.Tx, listingID string) error {
	res, err := tx.Exec(`
		UPDATE listings
		SET inventory = inventory - 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND inventory > 0
	`, listingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOutOfStock
	}
	return nil
}

// Release returns one unit of stock (order cancellation).
func (r *ListingRepo) Release(tx *sqlx.Tx, listingID string) error {
	res, err := tx.Exec(`
		UPDATE listings
		SET inventory = inventory + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, listingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) UpdateStatus(id string, status domain.ListingStatus) error {
	res, err := r.db.Exec(`
		UPDATE listings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) SetRemovalRequested(id string, requested bool) error {
	res, err := r.db.Exec(`
		UPDATE listings SET removal_requested = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, requested, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
