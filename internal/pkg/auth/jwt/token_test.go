package jwt

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomtoken/internal/pkg/errs"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newPayload(now time.Time) *Payload {
	return &Payload{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "9b2f8c1e-0000-4000-8000-000000000001",
			IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Version: 3,
		Scope:   json.RawMessage(`{"appId":"app-123"}`),
		Peer:    PeerClaim{ID: "p2p-peer-4fQ0xk9TzP1a"},
	}
}

func decodeHeader(t *testing.T, token string) map[string]any {
	t.Helper()

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)

	header := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &header))
	return header
}

func TestGenerateToken(t *testing.T) {
	t.Run("Header", func(t *testing.T) {
		token, err := GenerateToken(newPayload(time.Now()), "app-123", testSecret)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"alg": "HS256", "typ": "JWT", "kid": "app-123"}, decodeHeader(t, token))
		assert.NotContains(t, token, "=")
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
	})

	t.Run("Deterministic", func(t *testing.T) {
		now := time.Unix(1_000_000, 0)
		a, err := GenerateToken(newPayload(now), "app-123", testSecret)
		require.NoError(t, err)
		b, err := GenerateToken(newPayload(now), "app-123", testSecret)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("Failures", func(t *testing.T) {
		testCases := []struct {
			name    string
			payload *Payload
			keyID   string
			secret  []byte
		}{
			{"empty secret", newPayload(time.Now()), "app-123", nil},
			{"empty key id", newPayload(time.Now()), "", testSecret},
			{"nil payload", nil, "app-123", testSecret},
			{"unserializable scope", &Payload{Scope: json.RawMessage(`{`)}, "app-123", testSecret},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				token, err := GenerateToken(tc.payload, tc.keyID, tc.secret)
				assert.ErrorIs(t, err, errs.ErrSigning)
				assert.Empty(t, token)
				assert.NotContains(t, err.Error(), string(testSecret))
			})
		}
	})
}

func TestParseToken(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	clock := jwt.WithTimeFunc(func() time.Time { return now })

	token, err := GenerateToken(newPayload(now), "app-123", testSecret)
	require.NoError(t, err)

	t.Run("RoundTrip", func(t *testing.T) {
		payload, err := ParseToken(token, "app-123", testSecret, clock)
		require.NoError(t, err)

		want := newPayload(now)
		assert.Equal(t, want.ID, payload.ID)
		assert.Equal(t, want.IssuedAt.Unix(), payload.IssuedAt.Unix())
		assert.Equal(t, want.ExpiresAt.Unix(), payload.ExpiresAt.Unix())
		assert.Equal(t, want.Version, payload.Version)
		assert.JSONEq(t, string(want.Scope), string(payload.Scope))
		assert.Equal(t, want.Peer, payload.Peer)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := ParseToken(token, "app-123", []byte("another-secret"), clock)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("WrongKeyID", func(t *testing.T) {
		_, err := ParseToken(token, "app-999", testSecret, clock)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		_, err := ParseToken(token, "app-123", testSecret, jwt.WithTimeFunc(func() time.Time {
			return now.Add(2 * time.Hour)
		}))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("OtherAlgorithm", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS512, newPayload(now))
		other.Header[KeyIDHeader] = "app-123"
		signed, err := other.SignedString(testSecret)
		require.NoError(t, err)

		_, err = ParseToken(signed, "app-123", testSecret, clock)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})
}
