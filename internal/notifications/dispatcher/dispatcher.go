// Package dispatcher delivers invitation notifications to players once the
// reservation service has announced them on the event bus.
package dispatcher

import (
	"context"
	"errors"
	"time"

	notificationserrors "golfmaster/internal/notifications/errors"
	"golfmaster/pkg/kafka"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"
)

// Pusher hands a notification to the device push gateway.
type Pusher interface {
	Push(ctx context.Context, notification *model.Notification) error
}

// NotificationStore is the part of the notification repository the
// dispatcher needs.
type NotificationStore interface {
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error
}

type Dispatcher struct {
	store  NotificationStore
	pusher Pusher
	log    *logger.Logger
	now    func() time.Time
}

func New(store NotificationStore, pusher Pusher, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		pusher: pusher,
		log:    log,
		now:    time.Now,
	}
}

// Handle is the consumer's message handler. Malformed events and missing
// notifications are permanent failures; store and push errors are retried.
func (d *Dispatcher) Handle(ctx context.Context, msg kafka.Message) error {
	if eventType := msg.GetEventType(); eventType != model.EventNotificationCreated {
		d.log.Debug("Skipping unrelated event", "event_type", eventType, "event_id", msg.GetEventID())
		return nil
	}

	var event model.NotificationEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid notification event payload", err)
	}
	if event.NotificationID == "" {
		return kafka.NewPermanentError("notification event without notification id", kafka.ErrInvalidMessage)
	}

	notification, err := d.store.FindByID(ctx, event.NotificationID)
	if err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) || errors.Is(err, notificationserrors.ErrInvalidID) {
			return kafka.NewPermanentError("notification does not exist", err).
				WithDetail("notification_id", event.NotificationID)
		}
		return kafka.NewTransientError("failed to load notification", err)
	}

	if notification.DeliveredAt != nil {
		d.log.Debug("Notification already delivered", "notification_id", notification.ID)
		return nil
	}

	if err := d.pusher.Push(ctx, notification); err != nil {
		return kafka.NewTransientError("failed to push notification", err)
	}

	if err := d.store.MarkDelivered(ctx, notification.ID, d.now().UTC().Truncate(time.Millisecond)); err != nil {
		return kafka.NewTransientError("failed to mark notification delivered", err)
	}

	d.log.Info("Invitation delivered",
		"notification_id", notification.ID,
		"recipient_id", notification.RecipientID,
		"reservation_id", notification.ReservationID,
	)
	return nil
}

// LogPusher stands in for a push gateway by logging each notification.
type LogPusher struct {
	log *logger.Logger
}

func NewLogPusher(log *logger.Logger) *LogPusher {
	return &LogPusher{log: log}
}

func (p *LogPusher) Push(ctx context.Context, notification *model.Notification) error {
	p.log.Info("Push notification",
		"recipient_id", notification.RecipientID,
		"message", notification.Message,
	)
	return nil
}
