package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/jcmexdev/storefront/internal/auth"
	"github.com/jcmexdev/storefront/internal/core/domain"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "user_id"
	ctxKeyRole   ctxKey = "role"
)

// Authenticate resolves the Authorization header into user id and role
// context values. Requests without a valid token pass through anonymous;
// RequireAuth / RequireAdmin decide what that means per route.
func Authenticate(verify func(raw string) (*auth.Claims, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw != "" && raw != r.Header.Get("Authorization") {
				if claims, err := verify(raw); err == nil {
					ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.UserID)
					ctx = context.WithValue(ctx, ctxKeyRole, claims.Role)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "not_authenticated", domain.ErrNotAuthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects everyone without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, "not_authenticated", domain.ErrNotAuthenticated.Error())
			return
		}
		if role(r.Context()) != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Comma-ok extraction of typed context values.

func userID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

func role(ctx context.Context) string {
	r, _ := ctx.Value(ctxKeyRole).(string)
	return r
}

func isAdmin(ctx context.Context) bool {
	return role(ctx) == domain.RoleAdmin
}
