package services

import (
	"grambazaar/internal/domain"
	"grambazaar/internal/repos"
)

const notificationPageSize = 5

type NotificationService struct {
	Notifs *repos.NotificationRepo
}

func NewNotificationService(notifs *repos.NotificationRepo) *NotificationService {
	return &NotificationService{Notifs: notifs}
}

// Poll returns the seller's unread notifications, newest first, capped at
// a small fixed page size.
func (s *NotificationService) Poll(sellerID string) ([]domain.Notification, error) {
	return s.Notifs.Unread(sellerID, notificationPageSize)
}

// MarkRead is idempotent; re-reading a notification has no further effect.
func (s *NotificationService) MarkRead(notificationID, sellerID string) error {
	return s.Notifs.MarkRead(notificationID, sellerID)
}
