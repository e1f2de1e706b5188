package repository

import (
	"testing"

	"golfmaster/pkg/model"
)

func TestRecipientFilter(t *testing.T) {
	all := recipientFilter("u2", "")
	if len(all) != 1 || all["recipient_id"] != "u2" {
		t.Errorf("unexpected filter without status: %v", all)
	}

	pending := recipientFilter("u2", model.NotificationPending)
	if pending["status"] != model.NotificationPending {
		t.Errorf("expected status filter, got %v", pending)
	}
}
