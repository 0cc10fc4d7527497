package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"grambazaar/internal/domain"
)

type SellerRepo struct{ db *sqlx.DB }

func NewSellerRepo(db *sqlx.DB) *SellerRepo { return &SellerRepo{db: db} }

func (r *SellerRepo) Get(id string) (domain.Seller, error) {
	var s domain.Seller
	err := r.db.Get(&s, `SELECT * FROM sellers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Seller{}, domain.ErrNotFound
	}
	return s, err
}

func (r *SellerRepo) Create(s domain.Seller) error {
	_, err := r.db.Exec(`
	  INSERT INTO sellers
	    (id, name, contact_person, phone, email, state, city, description, verification_level, logo_path, wallet_balance, created_at)
	  VALUES
	    (?,  ?,    ?,              ?,     ?,     ?,     ?,    ?,           ?,                  ?,         ?,              CURRENT_TIMESTAMP)
	`, s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.State, s.City, s.Description, s.Verification, s.LogoPath, s.WalletBalance)
	return err
}

func (r *SellerRepo) List() ([]domain.Seller, error) {
	var out []domain.Seller
	err := r.db.Select(&out, `SELECT * FROM sellers ORDER BY LOWER(name)`)
	return out, err
}
