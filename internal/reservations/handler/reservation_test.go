package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golfmaster/internal/reservations/viewmodel"
	apperrors "golfmaster/pkg/errors"
	"golfmaster/pkg/logger"
	"golfmaster/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockReservationService struct {
	createFunc   func(ctx context.Context, req *model.CreateReservationRequest) (*model.CreateResult, error)
	getByIDFunc  func(ctx context.Context, id string) (*model.Reservation, error)
	listMineFunc func(ctx context.Context) ([]*model.Reservation, error)
	updateFunc   func(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockReservationService) Create(ctx context.Context, req *model.CreateReservationRequest) (*model.CreateResult, error) {
	return m.createFunc(ctx, req)
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockReservationService) ListMine(ctx context.Context) ([]*model.Reservation, error) {
	return m.listMineFunc(ctx)
}

func (m *mockReservationService) Update(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	return m.updateFunc(ctx, id, update)
}

func (m *mockReservationService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

type fakeFeed struct {
	startErr error
	states   chan viewmodel.ListState
	closed   bool
}

func (f *fakeFeed) Start(ctx context.Context) error { return f.startErr }

func (f *fakeFeed) Watch() (<-chan viewmodel.ListState, func()) {
	return f.states, func() {}
}

func (f *fakeFeed) Close() { f.closed = true }

func newRouter(svc *mockReservationService, feed *fakeFeed) *httprouter.Router {
	h := NewReservationHandler(svc, func() Feed { return feed }, time.Hour, logger.Discard())
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate(t *testing.T) {
	var got *model.CreateReservationRequest
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, req *model.CreateReservationRequest) (*model.CreateResult, error) {
			got = req
			return &model.CreateResult{
				Reservation: &model.Reservation{ID: "r1", OwnerID: "U1", Participants: []string{"U1", "U2"}},
				Notified:    []string{"U2"},
			}, nil
		},
	}
	router := newRouter(svc, nil)

	body := `{"date":"2025-06-01T09:00:00Z","course":"18 holes","players":2,"invitees":["U2"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	if got == nil || got.Course != "18 holes" || len(got.Invitees) != 1 {
		t.Errorf("unexpected request passed to service: %+v", got)
	}

	var resp struct {
		Data model.CreateResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Reservation.ID != "r1" || len(resp.Data.Notified) != 1 {
		t.Errorf("unexpected response: %+v", resp.Data)
	}
}

func TestCreate_RejectsUnknownFields(t *testing.T) {
	router := newRouter(&mockReservationService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{"course":"x","owner_id":"someone-else"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		err        error
		wantStatus int
	}{
		{"get forbidden", http.MethodGet, "/api/v1/reservations/id/r1", apperrors.Forbidden("nope"), http.StatusForbidden},
		{"get not found", http.MethodGet, "/api/v1/reservations/id/r1", apperrors.NotFoundWithID("Reservation", "r1"), http.StatusNotFound},
		{"list unauthenticated", http.MethodGet, "/api/v1/reservations/mine", apperrors.Unauthenticated(), http.StatusUnauthorized},
		{"delete internal", http.MethodDelete, "/api/v1/reservations/id/r1", apperrors.Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReservationService{
				getByIDFunc:  func(context.Context, string) (*model.Reservation, error) { return nil, tt.err },
				listMineFunc: func(context.Context) ([]*model.Reservation, error) { return nil, tt.err },
				deleteFunc:   func(context.Context, string) error { return tt.err },
			}
			router := newRouter(svc, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	svc := &mockReservationService{
		updateFunc: func(ctx context.Context, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
			if id != "r1" || update.Players == nil || *update.Players != 3 {
				t.Errorf("unexpected update %s %+v", id, update)
			}
			return &model.Reservation{ID: id, Players: 3}, nil
		},
	}
	router := newRouter(svc, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/id/r1", strings.NewReader(`{"players":3}`)))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
}

func TestDelete(t *testing.T) {
	svc := &mockReservationService{
		deleteFunc: func(context.Context, string) error { return nil },
	}
	router := newRouter(svc, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/id/r1", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestFeed_StreamsStateEvents(t *testing.T) {
	feed := &fakeFeed{states: make(chan viewmodel.ListState, 2)}
	feed.states <- viewmodel.ListState{Loading: true, Reservations: []*model.Reservation{}}
	feed.states <- viewmodel.ListState{Reservations: []*model.Reservation{{ID: "r1"}}}
	close(feed.states)

	router := newRouter(&mockReservationService{}, feed)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/feed", nil)
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if strings.Count(body, "event: state\n") != 2 {
		t.Errorf("expected two state events, got:\n%s", body)
	}
	if !strings.Contains(body, `"id":"r1"`) {
		t.Errorf("expected reservation in stream, got:\n%s", body)
	}
	if !feed.closed {
		t.Error("feed must be closed when the stream ends")
	}
}

func TestFeed_StartFailure(t *testing.T) {
	feed := &fakeFeed{startErr: apperrors.Unauthenticated()}
	router := newRouter(&mockReservationService{}, feed)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/feed", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !feed.closed {
		t.Error("feed must be closed after a failed start")
	}
}

func TestFeed_StopsWhenClientLeaves(t *testing.T) {
	feed := &fakeFeed{states: make(chan viewmodel.ListState)}
	router := newRouter(&mockReservationService{}, feed)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/feed", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("feed handler did not return after client disconnect")
	}
	if !feed.closed {
		t.Error("feed must be closed after disconnect")
	}
}
