// Package viewmodel keeps a session's reservation list live: it subscribes
// to the owned and participant queries and publishes the merged result.
package viewmodel

import (
	"context"
	"errors"
	"sync"

	reservationserrors "golfmaster/internal/reservations/errors"
	"golfmaster/internal/reservations/merger"
	"golfmaster/internal/reservations/repository"
	"golfmaster/pkg/auth"
	apperrors "golfmaster/pkg/errors"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"
	"golfmaster/pkg/store"
)

const eventBuffer = 16

type ListState struct {
	Loading      bool                 `json:"loading"`
	Err          string               `json:"error,omitempty"`
	Reservations []*model.Reservation `json:"reservations"`
}

type eventKind int

const (
	evReset eventKind = iota
	evSnapshot
	evFailure
)

type event struct {
	kind     eventKind
	gen      uint64
	side     merger.Side
	snapshot []*model.Reservation
	err      error
}

// ListViewModel serializes every state change on one loop goroutine.
// Subscription callbacks only enqueue events.
type ListViewModel struct {
	live  repository.LiveQuery
	log   *logger.Logger
	state *store.Store[ListState]

	events   chan event
	stop     chan struct{}
	loopDone chan struct{}

	mu     sync.Mutex
	gen    uint64
	subs   []repository.Subscription
	closed bool

	closeOnce sync.Once
}

func New(live repository.LiveQuery, log *logger.Logger) *ListViewModel {
	vm := &ListViewModel{
		live:     live,
		log:      log,
		state:    store.New(ListState{Reservations: []*model.Reservation{}}),
		events:   make(chan event, eventBuffer),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	go vm.loop()
	return vm
}

func (vm *ListViewModel) State() ListState {
	return vm.state.Get()
}

// Watch streams state changes until cancel or Close.
func (vm *ListViewModel) Watch() (<-chan ListState, func()) {
	return vm.state.Watch()
}

// Start subscribes to the session user's owned and participant
// reservations. Any previous subscriptions are cancelled first. Without a
// session user nothing is queried.
func (vm *ListViewModel) Start(ctx context.Context) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return reservationserrors.ErrSubscriptionClosed
	}

	vm.cancelSubsLocked()
	vm.gen++
	gen := vm.gen
	vm.send(event{kind: evReset, gen: gen})

	userID, ok := auth.UserID(ctx)
	if !ok {
		err := apperrors.Unauthenticated()
		vm.send(event{kind: evFailure, gen: gen, err: err})
		return err
	}

	queries := []struct {
		side  merger.Side
		query repository.Query
	}{
		{merger.SideOwned, repository.OwnedBy(userID)},
		{merger.SideParticipant, repository.ParticipantOf(userID)},
	}

	for _, q := range queries {
		sub, err := vm.live.Subscribe(ctx, q.query, vm.onSnapshot(gen, q.side), vm.onError(gen, q.side))
		if err != nil {
			vm.log.Error("Failed to subscribe to reservations",
				"user_id", userID,
				"side", q.side.String(),
				"error", err,
			)
			vm.cancelSubsLocked()
			vm.send(event{kind: evFailure, gen: gen, err: err})
			return apperrors.Internal("Failed to subscribe to reservations", err)
		}
		vm.subs = append(vm.subs, sub)
	}

	vm.log.Debug("Reservation list started", "user_id", userID)
	return nil
}

// Retry drops the current subscriptions and loads again.
func (vm *ListViewModel) Retry(ctx context.Context) error {
	return vm.Start(ctx)
}

// Close cancels the subscriptions, stops the loop and closes watchers. It
// is safe to call more than once.
func (vm *ListViewModel) Close() {
	vm.closeOnce.Do(func() {
		vm.mu.Lock()
		vm.closed = true
		vm.cancelSubsLocked()
		vm.mu.Unlock()

		close(vm.stop)
		<-vm.loopDone
		vm.state.Close()
	})
}

func (vm *ListViewModel) onSnapshot(gen uint64, side merger.Side) repository.SnapshotFunc {
	return func(snapshot []*model.Reservation) {
		vm.send(event{kind: evSnapshot, gen: gen, side: side, snapshot: snapshot})
	}
}

func (vm *ListViewModel) onError(gen uint64, side merger.Side) repository.ErrorFunc {
	return func(err error) {
		vm.log.Warn("Reservation subscription failed", "side", side.String(), "error", err)
		vm.send(event{kind: evFailure, gen: gen, side: side, err: err})
	}
}

func (vm *ListViewModel) send(ev event) {
	select {
	case vm.events <- ev:
	case <-vm.stop:
	}
}

func (vm *ListViewModel) cancelSubsLocked() {
	for _, sub := range vm.subs {
		sub.Cancel()
	}
	vm.subs = nil
}

func (vm *ListViewModel) loop() {
	defer close(vm.loopDone)

	m := merger.New()
	var gen uint64
	var seen [2]bool

	for {
		select {
		case <-vm.stop:
			return

		case ev := <-vm.events:
			switch ev.kind {
			case evReset:
				gen = ev.gen
				m.Reset()
				seen = [2]bool{}
				vm.state.Set(ListState{Loading: true, Reservations: []*model.Reservation{}})

			case evSnapshot:
				if ev.gen != gen {
					continue
				}
				list := m.Apply(ev.side, ev.snapshot)
				seen[ev.side] = true
				vm.state.Update(func(s ListState) ListState {
					s.Reservations = list
					s.Loading = s.Err == "" && !(seen[merger.SideOwned] && seen[merger.SideParticipant])
					return s
				})

			case evFailure:
				if ev.gen != gen {
					continue
				}
				vm.state.Update(func(s ListState) ListState {
					s.Loading = false
					s.Err = errorMessage(ev.err)
					return s
				})
			}
		}
	}
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
