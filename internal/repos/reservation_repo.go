package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"grambazaar/internal/domain"
)

type ReservationRepo struct{ db *sqlx.DB }

func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Upsert creates or refreshes the single reservation a buyer may hold for
// a listing, pushing its expiry forward.
func (r *ReservationRepo) Upsert(buyerID, listingID string, ttl time.Duration) (domain.Reservation, error) {
	res := domain.Reservation{
		ID:        uuid.NewString(),
		BuyerID:   buyerID,
		ListingID: listingID,
		ExpiresAt: time.Now().UTC().Add(ttl).Format(stampLayout),
	}
	_, err := r.db.Exec(`
		INSERT INTO reservations(id, buyer_id, listing_id, expires_at, created_at)
		VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(buyer_id, listing_id)
		DO UPDATE SET expires_at = excluded.expires_at
	`, res.ID, res.BuyerID, res.ListingID, res.ExpiresAt)
	if err != nil {
		return domain.Reservation{}, err
	}
	return r.Get(buyerID, listingID)
}

func (r *ReservationRepo) Get(buyerID, listingID string) (domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.Get(&res, `
		SELECT * FROM reservations WHERE buyer_id = ? AND listing_id = ?
	`, buyerID, listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return res, err
}

func (r *ReservationRepo) Delete(buyerID, listingID string) error {
	_, err := r.db.Exec(`
		DELETE FROM reservations WHERE buyer_id = ? AND listing_id = ?
	`, buyerID, listingID)
	return err
}

// PurgeExpired drops stale reservations; called opportunistically, there is
// no background scheduler.
func (r *ReservationRepo) PurgeExpired() error {
	_, err := r.db.Exec(`
		DELETE FROM reservations WHERE datetime(expires_at) < datetime(?)
	`, nowStamp())
	return err
}
