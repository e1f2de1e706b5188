package middleware

import (
	"net/http"

	"golfmaster/pkg/auth"
	apperrors "golfmaster/pkg/errors"
	httputil "golfmaster/pkg/http"
	"golfmaster/pkg/logger"
)

// TokenVerifier is satisfied by *auth.Authenticator.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authentication verifies the bearer token and stores the subject in the
// request context. Requests without a valid token never reach the router.
func Authentication(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err == nil {
				var claims *auth.Claims
				if claims, err = verifier.Verify(token); err == nil {
					next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), claims.Subject)))
					return
				}
			}

			log.Warn("Authentication failed",
				"request_id", RequestID(r),
				"path", r.URL.Path,
				"error", err,
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="golfmaster"`)
			_ = httputil.WriteError(w, apperrors.Unauthenticated())
		})
	}
}
