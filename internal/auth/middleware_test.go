package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/motorlane/internal/auth"
	"github.com/motorlane/motorlane/internal/shared"
	_ "github.com/motorlane/motorlane/testing"
)

func TestRequireAuth(t *testing.T) {
	codec := auth.NewTokenCodec(tokenSecret)
	mw := auth.Middleware{Codec: codec, CookieName: "token"}

	var seen *shared.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := mw.RequireAuth(next)

	t.Run("missing cookie", func(t *testing.T) {
		res := httptest.NewRecorder()
		protected.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
		res := httptest.NewRecorder()
		protected.ServeHTTP(res, req)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-48 * time.Hour)
		expired, err := auth.NewTokenCodec(tokenSecret).
			WithClock(func() time.Time { return past }).
			Issue(shared.Identity{UserID: 9, Username: "old", Role: "admin"}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: expired})
		res := httptest.NewRecorder()
		protected.ServeHTTP(res, req)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("valid token reaches handler with identity", func(t *testing.T) {
		raw, err := codec.Issue(shared.Identity{UserID: 3, Username: "sam", Role: "admin"}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: raw})
		res := httptest.NewRecorder()
		protected.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		require.NotNil(t, seen)
		assert.Equal(t, int64(3), seen.UserID)
		assert.Equal(t, "admin", seen.Role)
	})
}
