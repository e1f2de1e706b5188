package service

import (
	"context"
	"errors"
	"sync"
	"time"

	notificationserrors "golfmaster/internal/notifications/errors"
	"golfmaster/internal/notifications/repository"
	reservationserrors "golfmaster/internal/reservations/errors"
	"golfmaster/pkg/auth"
	"golfmaster/pkg/config"
	apperrors "golfmaster/pkg/errors"
	"golfmaster/pkg/model"

	"github.com/go-playground/validator/v10"
)

// ParticipantRemover takes a player off a reservation when they decline.
type ParticipantRemover interface {
	RemoveParticipant(ctx context.Context, reservationID string, userID string) error
}

type NotificationService interface {
	ListForRecipient(ctx context.Context, status model.NotificationStatus, limit int, offset int64) ([]*model.Notification, int64, error)
	Respond(ctx context.Context, id string, req *model.RespondRequest) (*model.Notification, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	reservations ParticipantRemover
	validate     *validator.Validate
	cfg          *config.Config
	now          func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, reservations ParticipantRemover, cfg *config.Config) NotificationService {
	return &notificationService{
		repo:         repo,
		reservations: reservations,
		validate:     validator.New(),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *notificationService) ListForRecipient(ctx context.Context, status model.NotificationStatus, limit int, offset int64) ([]*model.Notification, int64, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, 0, apperrors.Unauthenticated()
	}
	if status != "" && !status.IsValid() {
		return nil, 0, apperrors.InvalidInput("Invalid notification status: " + string(status))
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var notifications []*model.Notification
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByRecipient(ctx, userID, status)
	}()
	go func() {
		defer wg.Done()
		notifications, errFind = s.repo.FindByRecipient(ctx, userID, status, limit, offset)
	}()
	wg.Wait()

	if err := errors.Join(errCount, errFind); err != nil {
		s.cfg.Log.Error("Failed to list notifications",
			"recipient_id", userID,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve notifications", err)
	}

	return notifications, count, nil
}

// Respond records the recipient's answer to a pending invitation. A
// decline also removes the recipient from the reservation, before the
// status changes, so a failed attempt can be retried.
func (s *notificationService) Respond(ctx context.Context, id string, req *model.RespondRequest) (*model.Notification, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Notification ID cannot be empty")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Notification response validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve notification")
	}
	if notification.RecipientID != userID {
		return nil, apperrors.Forbidden(notificationserrors.ErrNotRecipient.Error())
	}
	if notification.Status != model.NotificationPending {
		return nil, apperrors.Conflict(notificationserrors.ErrAlreadyAnswered.Error())
	}

	if req.Status == model.NotificationDeclined {
		if err := s.reservations.RemoveParticipant(ctx, notification.ReservationID, userID); err != nil {
			if !errors.Is(err, reservationserrors.ErrNotFound) {
				s.cfg.Log.Error("Failed to remove participant after decline",
					"notification_id", id,
					"reservation_id", notification.ReservationID,
					"user_id", userID,
					"error", err,
				)
				return nil, apperrors.Internal("Failed to leave reservation", err)
			}
			s.cfg.Log.Warn("Declined invitation for a missing reservation",
				"notification_id", id,
				"reservation_id", notification.ReservationID,
			)
		}
	}

	respondedAt := s.now().UTC().Truncate(time.Millisecond)
	if err := s.repo.UpdateStatus(ctx, id, req.Status, respondedAt); err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update notification")
	}

	notification.Status = req.Status
	notification.RespondedAt = &respondedAt

	s.cfg.Log.Info("Invitation answered",
		"notification_id", id,
		"reservation_id", notification.ReservationID,
		"recipient_id", userID,
		"status", req.Status,
	)
	return notification, nil
}

func (s *notificationService) mapRepoError(err error, id string, msg string) error {
	switch {
	case errors.Is(err, notificationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Notification", id)
	case errors.Is(err, notificationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid notification ID format")
	case errors.Is(err, notificationserrors.ErrAlreadyAnswered):
		return apperrors.Conflict(notificationserrors.ErrAlreadyAnswered.Error())
	default:
		s.cfg.Log.Error(msg, "notification_id", id, "error", err)
		return apperrors.Internal(msg, err)
	}
}
