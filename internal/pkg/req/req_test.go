package req

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomtoken/internal/pkg/errs"
)

type roomInput struct {
	RoomID string `json:"roomId"`
}

func newRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestBindJSON(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		var in roomInput
		customErr := BindJSON(httptest.NewRecorder(), newRequest(`{"roomId":"lobby"}`, "application/json"), &in, false)
		require.Nil(t, customErr)
		assert.Equal(t, "lobby", in.RoomID)
	})

	t.Run("OptionalEmptyBody", func(t *testing.T) {
		var in roomInput
		customErr := BindJSON(httptest.NewRecorder(), newRequest("", ""), &in, true)
		assert.Nil(t, customErr)
		assert.Empty(t, in.RoomID)
	})

	t.Run("RequiredEmptyBody", func(t *testing.T) {
		var in roomInput
		customErr := BindJSON(httptest.NewRecorder(), newRequest("", "application/json"), &in, false)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrInvalidJSONFormat, customErr.Code)
	})

	t.Run("WrongContentType", func(t *testing.T) {
		var in roomInput
		customErr := BindJSON(httptest.NewRecorder(), newRequest(`{"roomId":"lobby"}`, "text/plain"), &in, false)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrUnsupportedMediaType, customErr.Code)
	})

	t.Run("UnknownField", func(t *testing.T) {
		var in roomInput
		customErr := BindJSON(httptest.NewRecorder(), newRequest(`{"room":"lobby"}`, "application/json"), &in, false)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrInvalidJSONFormat, customErr.Code)
	})

	t.Run("TrailingContent", func(t *testing.T) {
		var in roomInput
		customErr := BindJSON(httptest.NewRecorder(), newRequest(`{"roomId":"a"}{"roomId":"b"}`, "application/json"), &in, false)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrExtraContentInBody, customErr.Code)
	})

	t.Run("TooLarge", func(t *testing.T) {
		var in roomInput
		body := `{"roomId":"` + strings.Repeat("a", int(MaxJSONBodySize)) + `"}`
		customErr := BindJSON(httptest.NewRecorder(), newRequest(body, "application/json"), &in, false)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrRequestEntityTooLarge, customErr.Code)
	})
}
