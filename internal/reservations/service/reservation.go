package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationserrors "golfmaster/internal/reservations/errors"
	"golfmaster/internal/reservations/merger"
	"golfmaster/internal/reservations/repository"
	"golfmaster/internal/reservations/validator"
	"golfmaster/pkg/auth"
	"golfmaster/pkg/config"
	apperrors "golfmaster/pkg/errors"
	"golfmaster/pkg/kafka"
	"golfmaster/pkg/model"
	"golfmaster/pkg/sanitizer"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo"
)

const eventSource = "reservations"

// NotificationWriter persists one invitation record.
type NotificationWriter interface {
	Create(ctx context.Context, notification *model.Notification) error
}

type ReservationService interface {
	Create(ctx context.Context, req *model.CreateReservationRequest) (*model.CreateResult, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	ListMine(ctx context.Context) ([]*model.Reservation, error)
	Update(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type reservationService struct {
	repo          repository.ReservationRepository
	notifications NotificationWriter
	publisher     kafka.Publisher
	validator     *validator.ReservationValidator
	cfg           *config.Config
	now           func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	notifications NotificationWriter,
	publisher kafka.Publisher,
	validator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &reservationService{
		repo:          repo,
		notifications: notifications,
		publisher:     publisher,
		validator:     validator,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Create persists the reservation with the owner and invitees as
// participants, then writes one pending notification per invitee. Each
// invitation is independent: a failed write is reported in the result and
// does not undo the reservation or skip the remaining invitees.
func (s *reservationService) Create(ctx context.Context, req *model.CreateReservationRequest) (*model.CreateResult, error) {
	ownerID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}

	s.sanitizeCreate(req, ownerID)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed",
			"owner_id", ownerID,
			"error", err,
		)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	reservation := &model.Reservation{
		OwnerID:      ownerID,
		Participants: lo.Uniq(append([]string{ownerID}, req.Invitees...)),
		Date:         req.Date.UTC(),
		Course:       req.Course,
		Players:      req.Players,
	}
	if err := s.validator.Validate(reservation); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"owner_id", ownerID,
			"error", err,
		)
		return nil, apperrors.Internal(fmt.Sprintf("Failed to create reservation: %v", driverCause(err)), err)
	}

	result := &model.CreateResult{
		Reservation: reservation,
		Notified:    []string{},
		Failed:      map[string]string{},
	}

	for _, invitee := range reservation.Invitees() {
		notification := model.NewInvitation(reservation, invitee, s.cfg.ClubLocation, s.now().UTC().Truncate(time.Millisecond))
		if err := s.notifications.Create(ctx, notification); err != nil {
			s.cfg.Log.Error("Failed to write invitation",
				"reservation_id", reservation.ID,
				"recipient_id", invitee,
				"error", err,
			)
			result.Failed[invitee] = err.Error()
			continue
		}
		result.Notified = append(result.Notified, invitee)
		s.publishInvitation(ctx, notification)
	}

	s.cfg.Log.Info("Reservation created",
		"reservation_id", reservation.ID,
		"owner_id", ownerID,
		"date", reservation.Date,
		"notified", len(result.Notified),
		"failed", len(result.Failed),
	)

	return result, nil
}

func (s *reservationService) publishInvitation(ctx context.Context, notification *model.Notification) {
	msg, err := kafka.NewMessage().
		WithKey(notification.RecipientID).
		WithValue(model.NewNotificationEvent(notification)).
		WithEventType(model.EventNotificationCreated).
		WithCorrelationID(notification.ReservationID).
		WithSource(eventSource).
		Build()
	if err == nil {
		err = s.publisher.Publish(ctx, msg)
	}
	if err != nil {
		s.cfg.Log.Warn("Failed to publish invitation event",
			"notification_id", notification.ID,
			"recipient_id", notification.RecipientID,
			"error", err,
		)
	}
}

func (s *reservationService) sanitizeCreate(req *model.CreateReservationRequest, ownerID string) {
	req.Course = sanitizer.NormalizeCourse(req.Course)
	req.Invitees = lo.Without(sanitizer.NormalizeIDs(req.Invitees), ownerID)
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve reservation")
	}

	if !reservation.HasParticipant(userID) {
		return nil, apperrors.Forbidden(reservationserrors.ErrNotParticipant.Error())
	}

	return reservation, nil
}

// ListMine returns the reservations the user owns or takes part in, once.
func (s *reservationService) ListMine(ctx context.Context) ([]*model.Reservation, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}

	var owned, participant []*model.Reservation
	var errOwned, errParticipant error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		owned, errOwned = s.repo.FindByOwner(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		participant, errParticipant = s.repo.FindByParticipant(ctx, userID)
	}()
	wg.Wait()

	if err := errors.Join(errOwned, errParticipant); err != nil {
		s.cfg.Log.Error("Failed to list reservations",
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to list reservations", err)
	}

	return merger.Merge(owned, participant), nil
}

func (s *reservationService) Update(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	if update.Course != nil {
		course := sanitizer.NormalizeCourse(*update.Course)
		update.Course = &course
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed",
			"reservation_id", id,
			"error", err,
		)
		return nil, apperrors.Validation("Reservation update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	var updated *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapRepoError(err, id, "Failed to retrieve reservation")
		}
		if !existing.IsOwnedBy(userID) {
			return apperrors.Forbidden(reservationserrors.ErrNotOwner.Error())
		}

		merged := applyUpdate(existing, update)
		if err := s.validator.Validate(merged); err != nil {
			return apperrors.Validation("Reservation update validation failed", map[string]any{
				"error": err.Error(),
			})
		}

		if err := s.repo.Update(sessCtx, id, update); err != nil {
			return s.mapRepoError(err, id, "Failed to update reservation")
		}
		updated = merged
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation",
			"reservation_id", id,
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.AsAppError(err)
	}

	s.cfg.Log.Info("Reservation updated",
		"reservation_id", id,
		"user_id", userID,
	)
	return updated, nil
}

func applyUpdate(r *model.Reservation, update *model.ReservationUpdate) *model.Reservation {
	merged := *r
	merged.Participants = append([]string(nil), r.Participants...)
	if update.Date != nil {
		merged.Date = update.Date.UTC()
	}
	if update.Course != nil {
		merged.Course = *update.Course
	}
	if update.Players != nil {
		merged.Players = *update.Players
	}
	return &merged
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return apperrors.Unauthenticated()
	}
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapRepoError(err, id, "Failed to retrieve reservation")
		}
		if !existing.IsOwnedBy(userID) {
			return apperrors.Forbidden(reservationserrors.ErrNotOwner.Error())
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return s.mapRepoError(err, id, "Failed to delete reservation")
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete reservation",
			"reservation_id", id,
			"user_id", userID,
			"error", err,
		)
		return apperrors.AsAppError(err)
	}

	s.cfg.Log.Info("Reservation deleted",
		"reservation_id", id,
		"user_id", userID,
	)
	return nil
}

func (s *reservationService) mapRepoError(err error, id string, msg string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	default:
		return apperrors.Internal(msg, err)
	}
}

// driverCause strips the repository's own wrapping so the driver message is
// reported once.
func driverCause(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
