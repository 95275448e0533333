package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/arvelin/storefront/internal/domain"
	"github.com/arvelin/storefront/internal/policy"
	"github.com/arvelin/storefront/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const actorKey contextKey = "actor"

// ActorFromHeaders is middleware that reads the X-User-ID and X-User-Role
// headers (injected by the API gateway after authentication) and stores the
// caller as a policy actor in the request context. Requests without an
// identity are rejected with 401.
func ActorFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get("X-User-ID")
		if uid == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
			})
			return
		}

		role := r.Header.Get("X-User-Role")
		if role != domain.RoleAdmin {
			role = domain.RoleUser
		}

		actor := policy.Actor{UserID: uid, Role: role}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFromContext extracts the authenticated caller from the request context.
func actorFromContext(ctx context.Context) (policy.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(policy.Actor)
	return actor, ok && actor.UserID != ""
}

// ContentTypeJSON enforces that requests with a body are application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
