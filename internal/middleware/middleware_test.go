package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	valid map[string]string
}

func (f fakeVerifier) Identity(token string) (string, error) {
	if id, ok := f.valid[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte(id))
}

func TestAuthMiddleware(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	verifier := fakeVerifier{valid: map[string]string{"good": "alice@example.com"}}
	h := AuthMiddleware(verifier, logger)(http.HandlerFunc(echoIdentity))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantMsg    string
	}{
		{"valid", "Bearer good", http.StatusOK, "alice@example.com", ""},
		{"lowercase scheme", "bearer good", http.StatusOK, "alice@example.com", ""},
		{"missing", "", http.StatusUnauthorized, "", "Token de acesso ausente"},
		{"no token", "Bearer", http.StatusUnauthorized, "", "Token de acesso ausente"},
		{"basic scheme", "Basic good", http.StatusUnauthorized, "", "Token de acesso ausente"},
		{"invalid", "Bearer bad", http.StatusUnauthorized, "", "Token inválido ou expirado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)

	_, ok = IdentityFromContext(WithIdentity(req.Context(), ""))
	assert.False(t, ok)

	id, ok := IdentityFromContext(WithIdentity(req.Context(), "bob@example.com"))
	assert.True(t, ok)
	assert.Equal(t, "bob@example.com", id)
}

func TestRequestLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates request id", func(t *testing.T) {
		hook.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signup", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "http request", entry.Message)
		assert.Equal(t, http.StatusTeapot, entry.Data["status"])
		assert.Equal(t, "/signup", entry.Data["path"])
		assert.Equal(t, id, entry.Data["request_id"])
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		hook.Reset()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", hook.LastEntry().Data["request_id"])
	})
}
