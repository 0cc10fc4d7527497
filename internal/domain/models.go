package domain

import "github.com/shopspring/decimal"

type Seller struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	ContactPerson string          `db:"contact_person" json:"contact_person"`
	Phone         string          `db:"phone" json:"phone"`
	Email         string          `db:"email" json:"email"`
	State         string          `db:"state" json:"state"`
	City          string          `db:"city" json:"city"`
	Description   string          `db:"description" json:"description"`
	Verification  string          `db:"verification_level" json:"verification_level"` // bronze | silver | gold
	LogoPath      string          `db:"logo_path" json:"logo_path"`
	WalletBalance decimal.Decimal `db:"wallet_balance" json:"wallet_balance"`
	CreatedAt     string          `db:"created_at" json:"created_at"`
	UpdatedAt     string          `db:"updated_at" json:"updated_at"`
}

type Listing struct {
	ID               string          `db:"id" json:"id"`
	SellerID         string          `db:"seller_id" json:"seller_id"`
	Title            string          `db:"title" json:"title"`
	Slug             string          `db:"slug" json:"slug"`
	Description      string          `db:"description" json:"description"`
	Price            decimal.Decimal `db:"price" json:"price"`
	Category         string          `db:"category" json:"category"`
	ImagePath        string          `db:"image_path" json:"image_path"`
	Inventory        int             `db:"inventory" json:"inventory"` // never negative
	Status           ListingStatus   `db:"status" json:"status"`
	RemovalRequested bool            `db:"removal_requested" json:"removal_requested"`
	CreatedAt        string          `db:"created_at" json:"created_at"`
	UpdatedAt        string          `db:"updated_at" json:"updated_at"`
}

type Order struct {
	ID           string          `db:"id" json:"id"`
	ListingID    string          `db:"listing_id" json:"listing_id"`
	BuyerID      string          `db:"buyer_id" json:"buyer_id"`
	BuyerName    string          `db:"buyer_name" json:"buyer_name"`
	BuyerContact string          `db:"buyer_contact" json:"buyer_contact"`
	Address      string          `db:"address" json:"address"`
	Amount       decimal.Decimal `db:"amount" json:"amount"` // listing price at creation, immutable
	Status       OrderStatus     `db:"status" json:"status"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
	UpdatedAt    string          `db:"updated_at" json:"updated_at"`
}

// LedgerEntry rows are append-only; balance_after of the newest entry
// always matches the seller's cached wallet balance.
type LedgerEntry struct {
	ID           string          `db:"id" json:"id"`
	SellerID     string          `db:"seller_id" json:"seller_id"`
	Date         string          `db:"date" json:"date"`
	Description  string          `db:"description" json:"description"`
	Credit       decimal.Decimal `db:"credit" json:"credit"`
	Debit        decimal.Decimal `db:"debit" json:"debit"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
}

type Notification struct {
	ID        string `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Message   string `db:"message" json:"message"`
	Broadcast bool   `db:"broadcast" json:"broadcast"` // no explicit target sellers
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Reservation holds checkout context between the order form and the payment
// step. It does not decrement stock; the final commit re-checks inventory.
type Reservation struct {
	ID        string `db:"id" json:"id"`
	BuyerID   string `db:"buyer_id" json:"buyer_id"`
	ListingID string `db:"listing_id" json:"listing_id"`
	ExpiresAt string `db:"expires_at" json:"expires_at"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// ForecastAlert is computed on demand and only persisted (as a Notification)
// when the forecast runs in notify mode.
type ForecastAlert struct {
	ListingID string `json:"listing_id"`
	Product   string `json:"product"`
	SellerID  string `json:"seller_id"`
	Seller    string `json:"seller"`
	Message   string `json:"message"`
	Priority  string `json:"priority"` // high | medium
}
