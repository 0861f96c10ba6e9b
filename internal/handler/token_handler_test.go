package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomtoken/internal/app/scope"
	"roomtoken/internal/app/token"
	"roomtoken/internal/configs"
	"roomtoken/internal/pkg/errs"
	"roomtoken/internal/pkg/randx"
)

const testSecret = "handler-test-secret"

type envelope struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    IssueTokenOutput `json:"data"`
}

type failingIssuer struct {
	err error
}

func (f failingIssuer) Issue(string) (*token.Issued, error) { return nil, f.err }
func (f failingIssuer) AppID() string                       { return "app-123" }
func (f failingIssuer) SchemaVersion() scope.Version        { return scope.VersionFlat }

func testAppConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Environment:   "development",
		Port:          8080,
		IssueRate:     100,
		IssueBurst:    100,
		AppID:         "app-123",
		SecretKey:     testSecret,
		DefaultRoom:   "default-room",
		TokenLifetime: time.Hour,
		ClockSkew:     30 * time.Second,
		SchemaVersion: scope.VersionFlat,
		RelayEnabled:  true,
	}
}

func newTestServer(t *testing.T, cfg *configs.AppConfig, issuer TokenIssuer) http.Handler {
	t.Helper()

	if issuer == nil {
		issuerImpl, err := token.NewIssuer(cfg.IssuerConfig())
		require.NoError(t, err)
		issuer = issuerImpl
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return Router(ctx, &AppDeps{Issuer: issuer, Config: cfg})
}

func do(t *testing.T, h http.Handler, r *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var body envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestHandleIssueToken(t *testing.T) {
	cfg := testAppConfig()
	h := newTestServer(t, cfg, nil)
	verifier, err := token.NewIssuer(cfg.IssuerConfig())
	require.NoError(t, err)

	t.Run("GetWithRoom", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/token?roomId=lobby", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, 0, body.Code)
		assert.Equal(t, "app-123", body.Data.AppID)
		assert.Equal(t, "lobby", body.Data.RoomID)
		assert.True(t, randx.IsValidPeerID(body.Data.PeerID), body.Data.PeerID)

		payload, doc, err := verifier.Verify(body.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, "lobby", doc.Rooms[0].Name)
		assert.Equal(t, body.Data.PeerID, payload.Peer.ID)
	})

	t.Run("GetDefaultRoom", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/token", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "default-room", body.Data.RoomID)
	})

	t.Run("LegacyPath", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/skyway-token?roomId=lobby", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "lobby", body.Data.RoomID)
	})

	t.Run("PostWithBody", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"roomId":"standup"}`))
		r.Header.Set("Content-Type", "application/json")
		w, body := do(t, h, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "standup", body.Data.RoomID)
	})

	t.Run("PostWithoutBody", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodPost, "/api/token", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "default-room", body.Data.RoomID)
	})

	t.Run("InvalidRoom", func(t *testing.T) {
		for _, room := range []string{"*", "two%20words"} {
			w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/token?roomId="+room, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code, room)
			assert.Equal(t, errs.ErrScopeInputInvalid, body.Code)
			assert.Empty(t, body.Data.Token)
		}
	})

	t.Run("PostMalformedBody", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(`{"roomId":`))
		r.Header.Set("Content-Type", "application/json")
		w, body := do(t, h, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errs.ErrInvalidJSONFormat, body.Code)
	})
}

func TestHandleIssueToken_SigningFailureIsGeneric(t *testing.T) {
	cause := fmt.Errorf("%w: hmac key %s rejected", errs.ErrSigning, testSecret)
	h := newTestServer(t, testAppConfig(), failingIssuer{err: cause})

	w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/token?roomId=lobby", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errs.ErrSigningFailed, body.Code)
	assert.NotContains(t, w.Body.String(), testSecret)
}

func TestHandleIssueToken_RateLimited(t *testing.T) {
	cfg := testAppConfig()
	cfg.IssueRate = 0.001
	cfg.IssueBurst = 1
	h := newTestServer(t, cfg, nil)

	first, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/api/token", nil))
	second, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/token", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, errs.ErrRateLimitExceeded, body.Code)
}

func TestRouter_Ambient(t *testing.T) {
	h := newTestServer(t, testAppConfig(), nil)

	t.Run("Root", func(t *testing.T) {
		w, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "running")
	})

	t.Run("Health", func(t *testing.T) {
		w, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		do(t, h, httptest.NewRequest(http.MethodGet, "/api/token", nil))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "roomtoken_tokens_issued_total")
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/api/token", nil)
		r.Header.Set("Origin", "https://app.example")
		r.Header.Set("Access-Control-Request-Method", http.MethodGet)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
