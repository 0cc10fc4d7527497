package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"grambazaar/internal/domain"
)

type NotificationRepo struct{ db *sqlx.DB }

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create stores a notification. An empty target list makes it a broadcast
// visible to every seller until they mark it read.
func (r *NotificationRepo) Create(title, message string, targetSellerIDs []string) (domain.Notification, error) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Broadcast: len(targetSellerIDs) == 0,
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Notification{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO notifications(id, title, message, broadcast, created_at)
		VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, n.ID, n.Title, n.Message, n.Broadcast); err != nil {
		return domain.Notification{}, err
	}
	for _, sid := range targetSellerIDs {
		if _, err := tx.Exec(`
			INSERT INTO notification_recipients(notification_id, seller_id, read_at)
			VALUES(?, ?, NULL)
			ON CONFLICT(notification_id, seller_id) DO NOTHING
		`, n.ID, sid); err != nil {
			return domain.Notification{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// Unread returns targeted-or-broadcast notifications the seller has not
// read yet, newest first. One join with a null check: a targeted row with
// read_at NULL is unread; a broadcast with no recipient row is untouched.
func (r *NotificationRepo) Unread(sellerID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []domain.Notification
	err := r.db.Select(&out, `
		SELECT n.id, n.title, n.message, n.broadcast, n.created_at
		FROM notifications n
		LEFT JOIN notification_recipients nr
		  ON nr.notification_id = n.id AND nr.seller_id = ?
		WHERE (nr.seller_id IS NOT NULL AND nr.read_at IS NULL)
		   OR (n.broadcast = 1 AND nr.seller_id IS NULL)
		ORDER BY datetime(n.created_at) DESC, n.rowid DESC
		LIMIT ?
	`, sellerID, limit)
	return out, err
}

// MarkRead is idempotent: re-reading keeps the original read_at.
func (r *NotificationRepo) MarkRead(notificationID, sellerID string) error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM notifications WHERE id = ?`, notificationID); err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	_, err := r.db.Exec(`
		INSERT INTO notification_recipients(notification_id, seller_id, read_at)
		VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(notification_id, seller_id)
		DO UPDATE SET read_at = COALESCE(notification_recipients.read_at, excluded.read_at)
	`, notificationID, sellerID)
	return err
}
