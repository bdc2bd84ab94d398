package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/continuity/pkg/errors"
)

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"n":1},"error":null}`, rec.Body.String())
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{name: "not found", err: errors.NewNotFoundError("thought", "4"), code: http.StatusNotFound, want: "NOT_FOUND"},
		{name: "validation", err: errors.NewValidationError("limit", -1, "bad"), code: http.StatusBadRequest, want: "BAD_REQUEST"},
		{name: "wrapped validation", err: fmt.Errorf("list: %w", errors.NewValidationError("limit", -1, "bad")), code: http.StatusBadRequest, want: "BAD_REQUEST"},
		{name: "no key", err: &errors.AuthenticationError{Method: "api_key", Message: "none"}, code: http.StatusServiceUnavailable, want: "SERVICE_UNAVAILABLE"},
		{name: "rate limited", err: errors.NewAPIError("gemini", 429, "slow down"), code: http.StatusTooManyRequests, want: "RATE_LIMITED"},
		{name: "provider", err: errors.NewAPIError("anthropic", 500, "down"), code: http.StatusBadGateway, want: "UPSTREAM_ERROR"},
		{name: "other", err: errors.New("disk"), code: http.StatusInternalServerError, want: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorFromType(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.want, resp.Error.Code)
			assert.Nil(t, resp.Data)
		})
	}
}
