package model

import (
	"testing"
	"time"
)

func TestReservation_Participants(t *testing.T) {
	r := &Reservation{OwnerID: "u1", Participants: []string{"u1", "u2", "u3"}}

	if !r.HasParticipant("u2") {
		t.Error("u2 should be a participant")
	}
	if r.HasParticipant("u4") {
		t.Error("u4 should not be a participant")
	}
	if !r.IsOwnedBy("u1") || r.IsOwnedBy("u2") {
		t.Error("ownership check is wrong")
	}

	got := r.Invitees()
	if len(got) != 2 || got[0] != "u2" || got[1] != "u3" {
		t.Errorf("Invitees() = %v, want [u2 u3]", got)
	}
}

func TestReservation_IsOwnedBy_EmptyOwner(t *testing.T) {
	r := &Reservation{}
	if r.IsOwnedBy("") {
		t.Error("empty owner must not match empty user")
	}
}

func TestInvitationMessage(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	r := &Reservation{
		ID:      "665f1c2a9b1e8a0012345678",
		OwnerID: "u1",
		Course:  "18 holes",
		Date:    time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		loc  *time.Location
		want string
	}{
		{"club time", madrid, "You have been invited to play 18 holes on 01/06/2025 09:30"},
		{"nil location uses UTC", nil, "You have been invited to play 18 holes on 01/06/2025 07:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvitationMessage(r, tt.loc); got != tt.want {
				t.Errorf("InvitationMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewInvitation(t *testing.T) {
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	r := &Reservation{ID: "665f1c2a9b1e8a0012345678", OwnerID: "u1", Course: "front 9", Date: now.Add(24 * time.Hour)}

	n := NewInvitation(r, "u2", time.UTC, now)

	if n.RecipientID != "u2" || n.SenderID != "u1" || n.ReservationID != r.ID {
		t.Errorf("unexpected addressing: %+v", n)
	}
	if n.Status != NotificationPending {
		t.Errorf("status = %s, want pending", n.Status)
	}
	if !n.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v, want %v", n.CreatedAt, now)
	}

	ev := NewNotificationEvent(n)
	if ev.RecipientID != "u2" || ev.ReservationID != r.ID {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestNotificationStatus_IsValid(t *testing.T) {
	for _, s := range []NotificationStatus{NotificationPending, NotificationAccepted, NotificationDeclined} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if NotificationStatus("maybe").IsValid() {
		t.Error("unknown status should be invalid")
	}
}

func TestUpdates_IsEmpty(t *testing.T) {
	if !(&ReservationUpdate{}).IsEmpty() {
		t.Error("zero ReservationUpdate should be empty")
	}
	players := 3
	if (&ReservationUpdate{Players: &players}).IsEmpty() {
		t.Error("update with players is not empty")
	}
	if !(&PlayerUpdate{}).IsEmpty() {
		t.Error("zero PlayerUpdate should be empty")
	}
}
