package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "golfmaster/pkg/errors"
	httputil "golfmaster/pkg/http"
)

// timeoutWriter drops writes from the handler once the deadline has fired.
type timeoutWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.written {
		return
	}
	tw.written = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.written = true
	return tw.ResponseWriter.Write(b)
}

func (tw *timeoutWriter) Flush() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return
	}
	if f, ok := tw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (tw *timeoutWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// expire writes the timeout response unless the handler already answered.
// Later handler writes are dropped.
func (tw *timeoutWriter) expire() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	tw.timedOut = true
	if !tw.written {
		tw.written = true
		_ = httputil.WriteError(tw.ResponseWriter, apperrors.Timeout("Request timeout"))
	}
}

// RequestTimeout bounds handler time. Event streams are exempt; they end
// with the client connection. The 504 is written before the handler's
// context is cancelled, so whatever the handler does on cancellation is
// discarded.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isEventStream(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithCancel(r.Context())
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutWriter{ResponseWriter: w}

			expired := make(chan struct{})
			timer := time.AfterFunc(timeout, func() {
				tw.expire()
				close(expired)
				cancel()
			})

			done := make(chan struct{})
			panicCh := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicCh <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
				if !timer.Stop() {
					<-expired
				}
			case p := <-panicCh:
				if !timer.Stop() {
					<-expired
				}
				panic(p)
			case <-expired:
			}
		})
	}
}

// isEventStream matches SSE requests by Accept header or by the feed path,
// since some clients do not send the header.
func isEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream") ||
		strings.HasSuffix(r.URL.Path, "/feed")
}
