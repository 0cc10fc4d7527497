package services

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"grambazaar/internal/domain"
	"grambazaar/internal/repos"
)

type WalletService struct {
	Ledger *repos.LedgerRepo
}

func NewWalletService(ledger *repos.LedgerRepo) *WalletService {
	return &WalletService{Ledger: ledger}
}

type WalletView struct {
	Balance decimal.Decimal      `json:"balance"`
	Entries []domain.LedgerEntry `json:"entries"`
}

func (s *WalletService) View(sellerID string) (WalletView, error) {
	balance, err := s.Ledger.Balance(sellerID)
	if err != nil {
		return WalletView{}, err
	}
	entries, err := s.Ledger.ListBySeller(sellerID)
	if err != nil {
		return WalletView{}, err
	}
	return WalletView{Balance: balance, Entries: entries}, nil
}

// ExportCSV streams the seller's ledger as delimited text, newest first.
func (s *WalletService) ExportCSV(sellerID string, w io.Writer) error {
	entries, err := s.Ledger.ListBySeller(sellerID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Description", "Credit", "Debit", "Balance After"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Date,
			e.Description,
			e.Credit.StringFixed(2),
			e.Debit.StringFixed(2),
			e.BalanceAfter.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
