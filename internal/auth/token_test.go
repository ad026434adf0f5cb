package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/motorlane/internal/auth"
	"github.com/motorlane/motorlane/internal/shared"
	_ "github.com/motorlane/motorlane/testing"
)

var tokenSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTokenRoundTrip(t *testing.T) {
	codec := auth.NewTokenCodec(tokenSecret)
	id := shared.Identity{UserID: 42, Username: "admin", Role: "super_admin"}

	raw, err := codec.Issue(id, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := codec.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, got.UserID)
	assert.Equal(t, id.Username, got.Username)
	assert.Equal(t, id.Role, got.Role)
}

func TestTokenExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := auth.NewTokenCodec(tokenSecret).WithClock(fixedClock(issuedAt))

	raw, err := codec.Issue(shared.Identity{UserID: 1, Username: "u", Role: "admin"}, 24*time.Hour)
	require.NoError(t, err)

	// One second before expiry the token still verifies.
	codec.WithClock(fixedClock(issuedAt.Add(24*time.Hour - time.Second)))
	_, err = codec.Verify(raw)
	require.NoError(t, err)

	// At exactly issue + ttl the token is already expired.
	codec.WithClock(fixedClock(issuedAt.Add(24 * time.Hour)))
	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)

	codec.WithClock(fixedClock(issuedAt.Add(25 * time.Hour)))
	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenTampered(t *testing.T) {
	codec := auth.NewTokenCodec(tokenSecret)
	raw, err := codec.Issue(shared.Identity{UserID: 7, Username: "u", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	// Flip a character in the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	raw, err := auth.NewTokenCodec(tokenSecret).Issue(shared.Identity{UserID: 7, Username: "u", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	other := auth.NewTokenCodec([]byte("ffffffffffffffffffffffffffffffff"))
	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	codec := auth.NewTokenCodec(tokenSecret)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid, "input %q", raw)
	}
}

func TestTokenIssueRejectsNonPositiveTTL(t *testing.T) {
	codec := auth.NewTokenCodec(tokenSecret)
	_, err := codec.Issue(shared.Identity{UserID: 1}, 0)
	assert.Error(t, err)
	_, err = codec.Issue(shared.Identity{UserID: 1}, -time.Minute)
	assert.Error(t, err)
}
