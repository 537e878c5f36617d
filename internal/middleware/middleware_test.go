package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"furnistore/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(token string) (*session.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Identity), args.Error(1)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	handler := CORS(okHandler())

	t.Run("Preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("Regular request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret-key", zerolog.Nop())(okHandler())

	tests := []struct {
		name           string
		path           string
		key            string
		expectedStatus int
	}{
		{"Valid key", "/api/cart", "secret-key", http.StatusOK},
		{"Missing key", "/api/cart", "", http.StatusUnauthorized},
		{"Wrong key", "/api/cart", "secret-kez", http.StatusUnauthorized},
		{"Short wrong key", "/api/cart", "x", http.StatusUnauthorized},
		{"Health is open", "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestIdentity(t *testing.T) {
	shopper := &session.Identity{Subject: "cust-7", Name: "Dewi"}

	var seen *session.Identity
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Anonymous request", func(t *testing.T) {
		seen = nil
		verifier := new(mockVerifier)
		req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
		w := httptest.NewRecorder()

		Identity(verifier, zerolog.Nop())(capture).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, seen)
		verifier.AssertNotCalled(t, "Verify", mock.Anything)
	})

	t.Run("Valid token", func(t *testing.T) {
		seen = nil
		verifier := new(mockVerifier)
		verifier.On("Verify", "good-token").Return(shopper, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()

		Identity(verifier, zerolog.Nop())(capture).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "cust-7", seen.Subject)
	})

	t.Run("Invalid token", func(t *testing.T) {
		seen = nil
		verifier := new(mockVerifier)
		verifier.On("Verify", "bad-token").Return(nil, session.ErrInvalidToken)
		req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()

		Identity(verifier, zerolog.Nop())(capture).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid token")
		assert.Nil(t, seen)
	})

	t.Run("Non-bearer scheme is ignored", func(t *testing.T) {
		seen = nil
		verifier := new(mockVerifier)
		req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()

		Identity(verifier, zerolog.Nop())(capture).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, seen)
	})

	t.Run("Nil verifier disables lookup", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/checkout", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		w := httptest.NewRecorder()

		Identity(nil, zerolog.Nop())(capture).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, seen)
	})
}

func TestLogging_RequestID(t *testing.T) {
	handler := Logging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	}))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"INTERNAL_ERROR","message":"internal server error"}`, w.Body.String())
}
