package model

import "time"

const EventNotificationCreated = "notification.created"

// NotificationEvent is the payload published for every invitation written
// by the reservation fan-out.
type NotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	RecipientID    string    `json:"recipient_id"`
	SenderID       string    `json:"sender_id"`
	ReservationID  string    `json:"reservation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewNotificationEvent(n *Notification) NotificationEvent {
	return NotificationEvent{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		SenderID:       n.SenderID,
		ReservationID:  n.ReservationID,
		CreatedAt:      n.CreatedAt,
	}
}
