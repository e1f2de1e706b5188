package model

import (
	"slices"
	"time"
)

const (
	MinPlayers = 1
	MaxPlayers = 4
)

type Reservation struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string    `json:"owner_id" bson:"owner_id" validate:"required,max=128"`
	Participants []string  `json:"participants" bson:"participants" validate:"required,min=1,max=4,unique,dive,required,max=128"`
	Date         time.Time `json:"date" bson:"date" validate:"required"`
	Course       string    `json:"course" bson:"course" validate:"required,min=2,max=100"`
	Players      int       `json:"players" bson:"players" validate:"required,min=1,max=4"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// HasParticipant reports whether userID is listed as a participant.
func (r *Reservation) HasParticipant(userID string) bool {
	return slices.Contains(r.Participants, userID)
}

func (r *Reservation) IsOwnedBy(userID string) bool {
	return r.OwnerID != "" && r.OwnerID == userID
}

// Invitees returns the participants other than the owner.
func (r *Reservation) Invitees() []string {
	out := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p != r.OwnerID {
			out = append(out, p)
		}
	}
	return out
}

type ReservationUpdate struct {
	Date    *time.Time `json:"date,omitempty" validate:"omitempty"`
	Course  *string    `json:"course,omitempty" validate:"omitempty,min=2,max=100"`
	Players *int       `json:"players,omitempty" validate:"omitempty,min=1,max=4"`
}

func (u *ReservationUpdate) IsEmpty() bool {
	return u.Date == nil && u.Course == nil && u.Players == nil
}

type CreateReservationRequest struct {
	Date     time.Time `json:"date" validate:"required"`
	Course   string    `json:"course" validate:"required,min=2,max=100"`
	Players  int       `json:"players" validate:"required,min=1,max=4"`
	Invitees []string  `json:"invitees" validate:"omitempty,max=3,dive,required,max=128"`
}

// CreateResult reports the outcome of a reservation create and its
// invitation fan-out. Failed maps invitee id to the error message.
type CreateResult struct {
	Reservation *Reservation      `json:"reservation"`
	Notified    []string          `json:"notified"`
	Failed      map[string]string `json:"failed,omitempty"`
}
