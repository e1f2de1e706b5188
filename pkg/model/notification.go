package model

import (
	"fmt"
	"time"
)

type NotificationStatus string

const (
	NotificationPending  NotificationStatus = "pending"
	NotificationAccepted NotificationStatus = "accepted"
	NotificationDeclined NotificationStatus = "declined"
)

const InvitationDateLayout = "02/01/2006 15:04"

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationPending, NotificationAccepted, NotificationDeclined:
		return true
	}
	return false
}

type Notification struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RecipientID   string             `json:"recipient_id" bson:"recipient_id" validate:"required"`
	SenderID      string             `json:"sender_id" bson:"sender_id" validate:"required"`
	ReservationID string             `json:"reservation_id" bson:"reservation_id" validate:"required,mongodb"`
	Message       string             `json:"message" bson:"message" validate:"required"`
	Status        NotificationStatus `json:"status" bson:"status" validate:"required,oneof=pending accepted declined"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	RespondedAt   *time.Time         `json:"responded_at,omitempty" bson:"responded_at,omitempty"`
	DeliveredAt   *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
}

// NewInvitation builds the pending notification sent to one invitee.
// The date is rendered in loc, the club's local time.
func NewInvitation(r *Reservation, recipientID string, loc *time.Location, now time.Time) *Notification {
	return &Notification{
		RecipientID:   recipientID,
		SenderID:      r.OwnerID,
		ReservationID: r.ID,
		Message:       InvitationMessage(r, loc),
		Status:        NotificationPending,
		CreatedAt:     now,
	}
}

func InvitationMessage(r *Reservation, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("You have been invited to play %s on %s", r.Course, r.Date.In(loc).Format(InvitationDateLayout))
}

type RespondRequest struct {
	Status NotificationStatus `json:"status" validate:"required,oneof=accepted declined"`
}
