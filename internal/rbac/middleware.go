package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/motorlane/motorlane/internal/platform/httpx"
	"github.com/motorlane/motorlane/internal/shared"
)

// Middleware wires authorization guards for HTTP handlers. Every
// protected route goes through exactly one of RequireRole or
// RequirePermission; guards are read-only and never downgrade a denial.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireRole allows only identities whose role key is in the given set.
// An empty set rejects every request.
func (m Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := normalizeRoleSet(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission allows only identities whose role holds the enabled
// permission key. A repository failure denies the request: authorization
// is fail-closed.
func (m Middleware) RequirePermission(key string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			ok, err := m.Service.HasPermission(r.Context(), identity.Role, key)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("permission check failed",
						slog.String("role", identity.Role),
						slog.String("permission", key),
						slog.Any("error", err))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			if !ok {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeRoleSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		set[role] = struct{}{}
	}
	return set
}
