package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
	"github.com/AnshRaj112/fittrack-backend/pkg/response"
)

type contextKey string

const userKey contextKey = "session_user"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// SessionResolver resolves session tokens. Implemented by services.AuthService.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (models.SessionUser, bool, error)
	Refresh(ctx context.Context, token string, userID uuid.UUID) error
}

// RequireAuth rejects requests without a valid session cookie. API routes
// get a 401 JSON body, pages a 303 redirect to the login page.
func RequireAuth(sessions SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(cookieName); err == nil {
				token = c.Value
			}

			user, ok, err := sessions.Authenticate(r.Context(), token)
			if err != nil {
				slog.Error("session lookup failed", slog.String("error", err.Error()))
				if isAPIRequest(r) {
					response.Error(w, apierrors.ErrServiceUnavailable)
					return
				}
				http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
				return
			}
			if !ok {
				if isAPIRequest(r) {
					response.Unauthorized(w)
					return
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if err := sessions.Refresh(r.Context(), token, user.UserID); err != nil {
				slog.Warn("failed to refresh session", slog.String("error", err.Error()))
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser stores the session identity in ctx.
func WithUser(ctx context.Context, user models.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the identity set by RequireAuth.
func UserFromContext(ctx context.Context) (models.SessionUser, bool) {
	user, ok := ctx.Value(userKey).(models.SessionUser)
	return user, ok
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
