package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golfmaster/pkg/auth"
	"golfmaster/pkg/logger"
)

var testSecret = strings.Repeat("k", 32)

func okHandler(calls *int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"n":1}`))
	})
}

func TestAuthentication(t *testing.T) {
	authenticator := auth.NewAuthenticator(testSecret, "golfmaster")
	token, err := authenticator.Issue("U1", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var seenUser string
	h := Authentication(authenticator, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = auth.UserID(r.Context())
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "U1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"tampered token", "Bearer " + token + "x", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/mine", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if seenUser != tt.wantUser {
				t.Errorf("user = %q, want %q", seenUser, tt.wantUser)
			}
		})
	}
}

func TestRateLimit_PerUser(t *testing.T) {
	rl := NewUserRateLimiter(60, 2, logger.Discard())
	defer rl.Stop()

	var calls int32
	h := RateLimit(rl)(okHandler(&calls))

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithUser(req.Context(), user))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := do("U1"); got != http.StatusCreated {
		t.Fatalf("first request status = %d", got)
	}
	if got := do("U1"); got != http.StatusCreated {
		t.Fatalf("second request status = %d", got)
	}
	if got := do("U1"); got != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", got)
	}
	if got := do("U2"); got != http.StatusCreated {
		t.Errorf("other user should have its own bucket, got %d", got)
	}
}

func TestIdempotency_ReplaysPerUser(t *testing.T) {
	stores := map[string]func(t *testing.T) IdempotencyStore{
		"memory": func(t *testing.T) IdempotencyStore {
			return NewInMemoryIdempotencyStore(time.Hour)
		},
		"bolt": func(t *testing.T) IdempotencyStore {
			s, err := NewBoltIdempotencyStore(filepath.Join(t.TempDir(), "idem.db"), time.Hour, logger.Discard())
			if err != nil {
				t.Fatalf("NewBoltIdempotencyStore() error = %v", err)
			}
			return s
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Stop()

			var calls int32
			h := Idempotency(store)(okHandler(&calls))

			post := func(user, key string) *httptest.ResponseRecorder {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{}`))
				req.Header.Set(IdempotencyHeader, key)
				req = req.WithContext(auth.WithUser(req.Context(), user))
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				return rec
			}

			first := post("U1", "abc")
			second := post("U1", "abc")
			if calls != 1 {
				t.Fatalf("handler calls = %d, want 1", calls)
			}
			if second.Code != first.Code || second.Body.String() != first.Body.String() {
				t.Errorf("replayed response differs: %d %q vs %d %q", second.Code, second.Body, first.Code, first.Body)
			}
			if second.Header().Get("Idempotent-Replayed") != "true" {
				t.Error("replayed response should be marked")
			}

			post("U2", "abc")
			if calls != 2 {
				t.Errorf("same key from another user must not replay, calls = %d", calls)
			}
		})
	}
}

func TestBoltIdempotencyStore_Purge(t *testing.T) {
	s, err := NewBoltIdempotencyStore(filepath.Join(t.TempDir(), "idem.db"), time.Millisecond, logger.Discard())
	if err != nil {
		t.Fatalf("NewBoltIdempotencyStore() error = %v", err)
	}
	defer s.Stop()

	s.Set("k", &CachedResponse{StatusCode: http.StatusOK})
	time.Sleep(5 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Error("expired record should not be returned")
	}
	n, err := s.Purge()
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Purge() removed %d, want 1", n)
	}
}

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(200 * time.Millisecond):
		}
		w.WriteHeader(http.StatusOK)
	})
	h := RequestTimeout(20 * time.Millisecond)(slow)

	t.Run("plain request times out", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusGatewayTimeout)
		}
	})

	t.Run("event stream is exempt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stream", nil)
		req.Header.Set("Accept", "text/event-stream")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("feed path is exempt without accept header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/feed", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

// A handler that answers as soon as its context is cancelled must never
// beat the timeout response.
func TestRequestTimeout_HandlerReactingToCancellation(t *testing.T) {
	eager := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		w.WriteHeader(http.StatusOK)
	})
	h := RequestTimeout(5 * time.Millisecond)(eager)

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/players/me", nil))
		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("run %d: status = %d, want %d", i, rec.Code, http.StatusGatewayTimeout)
		}
	}
}

func TestRequestTimeout_FastHandlerKeepsItsResponse(t *testing.T) {
	var calls int32
	h := RequestTimeout(time.Second)(okHandler(&calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/players/me", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestRequestTimeout_WriterSupportsFlush(t *testing.T) {
	var flushErr error
	flushing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		flushErr = http.NewResponseController(w).Flush()
	})
	h := RequestTimeout(time.Second)(flushing)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/mine", nil))

	if flushErr != nil {
		t.Fatalf("Flush() error = %v", flushErr)
	}
	if !rec.Flushed {
		t.Error("response was not flushed")
	}
}

func TestContentTypeValidation(t *testing.T) {
	var calls int32
	h := ContentTypeValidation(logger.Discard())(okHandler(&calls))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		wantStatus  int
	}{
		{"json post", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusCreated},
		{"text post", http.MethodPost, `{}`, "text/plain", http.StatusUnsupportedMediaType},
		{"empty post", http.MethodPost, "", "", http.StatusCreated},
		{"get", http.MethodGet, "", "", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
