package model

import "time"

type Player struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	DisplayName string    `json:"display_name" bson:"display_name" validate:"required,min=2,max=100"`
	Email       string    `json:"email" bson:"email" validate:"required,email,max=254"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Handicap    *float64  `json:"handicap,omitempty" bson:"handicap,omitempty" validate:"omitempty,min=-10,max=54"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type PlayerUpdate struct {
	DisplayName *string  `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       *string  `json:"phone,omitempty" validate:"omitempty,e164"`
	Handicap    *float64 `json:"handicap,omitempty" validate:"omitempty,min=-10,max=54"`
}

func (u *PlayerUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.Phone == nil && u.Handicap == nil
}
