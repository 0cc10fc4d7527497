package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"grambazaar/internal/domain"
)

type LedgerRepo struct{ db *sqlx.DB }

func NewLedgerRepo(db *sqlx.DB) *LedgerRepo { return &LedgerRepo{db: db} }

// AppendTx writes one immutable ledger entry and refreshes the seller's
// cached wallet balance. Must run inside the transaction of the state
// change that caused it (approve, cancel, placement placeholder).
func (r *LedgerRepo) AppendTx(tx *sqlx.Tx, sellerID, date, description string, credit, debit decimal.Decimal) (domain.LedgerEntry, error) {
	var balance decimal.Decimal
	err := tx.Get(&balance, `SELECT wallet_balance FROM sellers WHERE id = ?`, sellerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LedgerEntry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	e := domain.LedgerEntry{
		ID:           uuid.NewString(),
		SellerID:     sellerID,
		Date:         date,
		Description:  description,
		Credit:       credit,
		Debit:        debit,
		BalanceAfter: balance.Add(credit).Sub(debit),
	}
	if _, err := tx.Exec(`
	  INSERT INTO ledger_entries(id, seller_id, date, description, credit, debit, balance_after, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, e.ID, e.SellerID, e.Date, e.Description, e.Credit, e.Debit, e.BalanceAfter); err != nil {
		return domain.LedgerEntry{}, err
	}
	if _, err := tx.Exec(`
		UPDATE sellers SET wallet_balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, e.BalanceAfter, sellerID); err != nil {
		return domain.LedgerEntry{}, err
	}
	return e, nil
}

// Balance returns the cached wallet balance; it always matches the
// balance_after of the seller's newest ledger entry.
func (r *LedgerRepo) Balance(sellerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.Get(&balance, `SELECT wallet_balance FROM sellers WHERE id = ?`, sellerID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, domain.ErrNotFound
	}
	return balance, err
}

func (r *LedgerRepo) ListBySeller(sellerID string) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	err := r.db.Select(&out, `
		SELECT * FROM ledger_entries
		WHERE seller_id = ?
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, sellerID)
	return out, err
}
