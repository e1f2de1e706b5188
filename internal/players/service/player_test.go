package service

import (
	"context"
	"errors"
	"testing"

	playerserrors "golfmaster/internal/players/errors"
	"golfmaster/internal/players/validator"
	"golfmaster/pkg/auth"
	"golfmaster/pkg/config"
	apperrors "golfmaster/pkg/errors"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"

	"github.com/stretchr/testify/require"
)

type mockPlayerRepository struct {
	createFunc   func(ctx context.Context, p *model.Player) error
	findByIDFunc func(ctx context.Context, id string) (*model.Player, error)
	findAllFunc  func(ctx context.Context) ([]*model.Player, error)
	updateFunc   func(ctx context.Context, id string, u *model.PlayerUpdate) error

	created *model.Player
}

func (m *mockPlayerRepository) Create(ctx context.Context, p *model.Player) error {
	m.created = p
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockPlayerRepository) FindByID(ctx context.Context, id string) (*model.Player, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, playerserrors.ErrNotFound
}

func (m *mockPlayerRepository) FindAll(ctx context.Context) ([]*model.Player, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Player{}, nil
}

func (m *mockPlayerRepository) Update(ctx context.Context, id string, u *model.PlayerUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, u)
	}
	return nil
}

func newTestService(repo *mockPlayerRepository) PlayerService {
	cfg := &config.Config{Log: logger.Discard(), ClubTimeZone: "Europe/Madrid"}
	return NewPlayerService(repo, validator.NewPlayerValidator(), cfg)
}

func asUser(id string) context.Context {
	return auth.WithUser(context.Background(), id)
}

func TestRegister(t *testing.T) {
	repo := &mockPlayerRepository{}
	svc := newTestService(repo)

	p := &model.Player{ID: "spoofed", DisplayName: "  Ana   García ", Email: " Ana@Example.COM ", Phone: "612 345 678"}
	err := svc.Register(asUser("U1"), p)

	require.NoError(t, err)
	require.Equal(t, "U1", repo.created.ID)
	require.Equal(t, "Ana García", repo.created.DisplayName)
	require.Equal(t, "ana@example.com", repo.created.Email)
	require.Equal(t, "+34612345678", repo.created.Phone)
}

func TestRegister_Errors(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		repo := &mockPlayerRepository{}
		err := newTestService(repo).Register(context.Background(), &model.Player{DisplayName: "Ana", Email: "ana@example.com"})
		require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
		require.Nil(t, repo.created)
	})

	t.Run("unparseable phone is reported", func(t *testing.T) {
		repo := &mockPlayerRepository{}
		err := newTestService(repo).Register(asUser("U1"), &model.Player{DisplayName: "Ana", Email: "ana@example.com", Phone: "call me"})
		require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
		require.Nil(t, repo.created)
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := &mockPlayerRepository{
			createFunc: func(ctx context.Context, p *model.Player) error {
				return playerserrors.ErrAlreadyExists
			},
		}
		err := newTestService(repo).Register(asUser("U1"), &model.Player{DisplayName: "Ana", Email: "ana@example.com"})
		require.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mockPlayerRepository{
			createFunc: func(ctx context.Context, p *model.Player) error {
				return errors.New("no primary")
			},
		}
		err := newTestService(repo).Register(asUser("U1"), &model.Player{DisplayName: "Ana", Email: "ana@example.com"})
		require.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	})
}

func TestGetMe(t *testing.T) {
	repo := &mockPlayerRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Player, error) {
			if id == "U1" {
				return &model.Player{ID: "U1", DisplayName: "Ana"}, nil
			}
			return nil, playerserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	me, err := svc.GetMe(asUser("U1"))
	require.NoError(t, err)
	require.Equal(t, "Ana", me.DisplayName)

	_, err = svc.GetMe(asUser("U9"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateMe(t *testing.T) {
	var applied *model.PlayerUpdate
	repo := &mockPlayerRepository{
		updateFunc: func(ctx context.Context, id string, u *model.PlayerUpdate) error {
			require.Equal(t, "U1", id)
			applied = u
			return nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Player, error) {
			return &model.Player{ID: id, Phone: "+34612345678"}, nil
		},
	}
	svc := newTestService(repo)

	phone := "612-345-678"
	got, err := svc.UpdateMe(asUser("U1"), &model.PlayerUpdate{Phone: &phone})

	require.NoError(t, err)
	require.Equal(t, "+34612345678", *applied.Phone)
	require.Equal(t, "+34612345678", got.Phone)
}

func TestListInviteCandidates(t *testing.T) {
	repo := &mockPlayerRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Player, error) {
			return []*model.Player{
				{ID: "U3", DisplayName: "carlos"},
				{ID: "U1", DisplayName: "Ana"},
				{ID: "U2", DisplayName: "Beatriz"},
				nil,
			}, nil
		},
	}
	svc := newTestService(repo)

	got, err := svc.ListInviteCandidates(asUser("U1"))

	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "U2", got[0].ID)
	require.Equal(t, "U3", got[1].ID)

	_, err = svc.ListInviteCandidates(context.Background())
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}
