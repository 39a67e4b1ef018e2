package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"grievance/internal/auth"
	"grievance/internal/domain"
	"grievance/pkg/e"
)

type Authenticator interface {
	Authorize(token string, required ...domain.Role) (domain.Principal, error)
}

// Authenticate resolves the caller from a bearer token, or from the
// access_token query parameter for clients that cannot set headers
// (browsers opening a websocket). With roles set, callers holding none of
// them get 403.
func Authenticate(guard Authenticator, logger *slog.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthenticated", "missing access token")
				return
			}

			p, err := guard.Authorize(token, roles...)
			if errors.Is(err, e.ErrForbidden) {
				writeError(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			if err != nil {
				logger.Warn("authentication failed",
					slog.String("request_id", chimw.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, "Unauthenticated", "invalid access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}
