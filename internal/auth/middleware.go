package auth

import (
	"log/slog"
	"net/http"

	"github.com/motorlane/motorlane/internal/platform/httpx"
	"github.com/motorlane/motorlane/internal/shared"
)

// Middleware wires token authentication for HTTP handlers.
type Middleware struct {
	Codec      *TokenCodec
	CookieName string
	Logger     *slog.Logger
}

// RequireAuth extracts the token cookie, verifies it and places the
// identity into the request context. Missing, malformed and expired
// tokens all surface the same unauthenticated response.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.CookieName)
		if err != nil || cookie.Value == "" {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		identity, err := m.Codec.Verify(cookie.Value)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("token rejected", slog.Any("error", err), slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
