package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one pooled connection also keeps
	// concurrent order placements serialized instead of returning BUSY.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (sellers/listings)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Sellers (producer groups)
CREATE TABLE IF NOT EXISTS sellers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_person TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  verification_level TEXT NOT NULL DEFAULT 'bronze'
    CHECK (verification_level IN ('bronze','silver','gold')),
  logo_path TEXT NOT NULL DEFAULT '',
  wallet_balance TEXT NOT NULL DEFAULT '0',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_sellers_name_nocase ON sellers(LOWER(name));

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  category TEXT NOT NULL
    CHECK (category IN ('handicrafts','food','textiles','pottery','jewelry','other')),
  image_path TEXT NOT NULL DEFAULT '',
  inventory INTEGER NOT NULL DEFAULT 0 CHECK (inventory >= 0),
  status TEXT NOT NULL DEFAULT 'draft'
    CHECK (status IN ('draft','pending','live','rejected')),
  removal_requested INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_seller   ON listings(seller_id);
CREATE INDEX IF NOT EXISTS idx_listings_status   ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  buyer_id TEXT NOT NULL,
  buyer_name TEXT NOT NULL DEFAULT '',
  buyer_contact TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  amount TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_admin_approval'
    CHECK (status IN ('pending_admin_approval','approved','shipped','delivered','cancelled')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_listing    ON orders(listing_id);
CREATE INDEX IF NOT EXISTS idx_orders_buyer      ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Ledger (append-only)
CREATE TABLE IF NOT EXISTS ledger_entries(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
  date TEXT NOT NULL,
  description TEXT NOT NULL,
  credit TEXT NOT NULL DEFAULT '0',
  debit TEXT NOT NULL DEFAULT '0',
  balance_after TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_ledger_seller ON ledger_entries(seller_id, created_at);

-- Forecast notifications; recipients is the single join entity for both
-- targeting and read tracking (read_at NULL = targeted but unread).
CREATE TABLE IF NOT EXISTS notifications(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  broadcast INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notification_recipients(
  notification_id TEXT NOT NULL REFERENCES notifications(id) ON DELETE CASCADE,
  seller_id TEXT NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
  read_at TEXT,
  PRIMARY KEY (notification_id, seller_id)
);

-- Checkout reservations (short-lived, one per buyer+listing)
CREATE TABLE IF NOT EXISTS reservations(
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  expires_at TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (buyer_id, listing_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM sellers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo sellers/listings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO sellers(id,name,contact_person,phone,email,state,city,verification_level) VALUES
	  ('shg-asha','Asha Mahila Mandal','Asha Devi','+91 98200 11111','asha@grambazaar.test','Maharashtra','Pune','silver'),
	  ('shg-kala','Kala Kendra Collective','Meera Bai','+91 98200 22222','kala@grambazaar.test','Rajasthan','Jaipur','bronze'),
	  ('shg-annapurna','Annapurna Foods Group','Lakshmi Amma','+91 98200 33333','annapurna@grambazaar.test','Tamil Nadu','Madurai','gold')`)

	tx.MustExec(`INSERT INTO listings(id,seller_id,title,slug,description,price,category,inventory,status) VALUES
	  ('lst-basket','shg-asha','Bamboo Storage Basket','bamboo-storage-basket-asha','Handwoven bamboo basket','449.00','handicrafts',12,'live'),
	  ('lst-dupatta','shg-kala','Block Print Dupatta','block-print-dupatta-kala','Hand block printed cotton dupatta','799.50','textiles',3,'live'),
	  ('lst-pickle','shg-annapurna','Mango Pickle Jar','mango-pickle-jar-annapurna','Traditional sun-cured mango pickle','249.00','food',20,'live'),
	  ('lst-diya','shg-kala','Terracotta Diya Set','terracotta-diya-set-kala','Set of 12 hand painted diyas','199.00','pottery',0,'pending')`)

	return tx.Commit()
}

// Timestamps are stored as SQLite CURRENT_TIMESTAMP text (UTC).
const stampLayout = "2006-01-02 15:04:05"

func nowStamp() string { return time.Now().UTC().Format(stampLayout) }

func todayDate() string { return time.Now().UTC().Format("2006-01-02") }
