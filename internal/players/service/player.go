package service

import (
	"context"
	"errors"
	"sort"

	playerserrors "golfmaster/internal/players/errors"
	"golfmaster/internal/players/repository"
	"golfmaster/internal/players/validator"
	"golfmaster/pkg/auth"
	"golfmaster/pkg/config"
	apperrors "golfmaster/pkg/errors"
	"golfmaster/pkg/locale"
	"golfmaster/pkg/model"
	"golfmaster/pkg/sanitizer"

	"github.com/samber/lo"
)

type PlayerService interface {
	Register(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id string) (*model.Player, error)
	GetMe(ctx context.Context) (*model.Player, error)
	UpdateMe(ctx context.Context, update *model.PlayerUpdate) (*model.Player, error)
	ListInviteCandidates(ctx context.Context) ([]*model.Player, error)
}

type playerService struct {
	repo      repository.PlayerRepository
	validator *validator.PlayerValidator
	cfg       *config.Config
	region    string
}

func NewPlayerService(repo repository.PlayerRepository, validator *validator.PlayerValidator, cfg *config.Config) PlayerService {
	return &playerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		region:    locale.DetectRegion(cfg.ClubTimeZone),
	}
}

// Register creates the profile of the session user. The profile id is
// always the authenticated subject.
func (s *playerService) Register(ctx context.Context, player *model.Player) error {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return apperrors.Unauthenticated()
	}

	player.ID = userID
	player.DisplayName = sanitizer.NormalizeName(player.DisplayName)
	player.Email = sanitizer.NormalizeEmail(player.Email)
	player.Phone = s.normalizePhone(player.Phone)

	if err := s.validator.Validate(player); err != nil {
		s.cfg.Log.Warn("Player validation failed",
			"player_id", userID,
			"error", err,
		)
		return apperrors.Validation("Player validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, player); err != nil {
		if errors.Is(err, playerserrors.ErrAlreadyExists) {
			return apperrors.Conflict("Player profile already exists")
		}
		s.cfg.Log.Error("Failed to register player",
			"player_id", userID,
			"error", err,
		)
		return apperrors.Internal("Failed to register player", err)
	}

	s.cfg.Log.Info("Player registered", "player_id", userID, "region", s.region)
	return nil
}

// normalizePhone keeps the raw value when it cannot be parsed so that
// validation reports it instead of silently dropping it.
func (s *playerService) normalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	if normalized := sanitizer.NormalizePhone(phone, s.region); normalized != "" {
		return normalized
	}
	return phone
}

func (s *playerService) GetByID(ctx context.Context, id string) (*model.Player, error) {
	if _, ok := auth.UserID(ctx); !ok {
		return nil, apperrors.Unauthenticated()
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Player ID cannot be empty")
	}

	player, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, playerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Player", id)
		}
		s.cfg.Log.Error("Failed to get player", "player_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve player", err)
	}
	return player, nil
}

func (s *playerService) GetMe(ctx context.Context) (*model.Player, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}
	return s.GetByID(ctx, userID)
}

func (s *playerService) UpdateMe(ctx context.Context, update *model.PlayerUpdate) (*model.Player, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}
	if update.IsEmpty() {
		return nil, apperrors.InvalidInput("Update must change at least one field")
	}

	if update.DisplayName != nil {
		name := sanitizer.NormalizeName(*update.DisplayName)
		update.DisplayName = &name
	}
	if update.Phone != nil {
		phone := s.normalizePhone(*update.Phone)
		update.Phone = &phone
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Player update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, userID, update); err != nil {
		if errors.Is(err, playerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Player", userID)
		}
		s.cfg.Log.Error("Failed to update player", "player_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to update player", err)
	}

	return s.GetByID(ctx, userID)
}

// ListInviteCandidates returns every player except the session user,
// ordered by display name.
func (s *playerService) ListInviteCandidates(ctx context.Context) ([]*model.Player, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, apperrors.Unauthenticated()
	}

	players, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list players", "error", err)
		return nil, apperrors.Internal("Failed to retrieve players", err)
	}

	candidates := lo.Filter(players, func(p *model.Player, _ int) bool {
		return p != nil && p.ID != userID
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return sanitizer.NormalizeNameForComparison(candidates[i].DisplayName) <
			sanitizer.NormalizeNameForComparison(candidates[j].DisplayName)
	})

	return candidates, nil
}
