package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectorchat/internal/api"
)

func callWithAuth(t *testing.T, middleware func(http.Handler) http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_DisabledPassesThrough(t *testing.T) {
	middleware := api.AuthMiddleware("", "")

	rec := callWithAuth(t, middleware, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	middleware := api.AuthMiddleware("secret-key", "")

	t.Run("Valid key", func(t *testing.T) {
		rec := callWithAuth(t, middleware, "Bearer secret-key")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Wrong key", func(t *testing.T) {
		rec := callWithAuth(t, middleware, "Bearer wrong-key")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing header", func(t *testing.T) {
		rec := callWithAuth(t, middleware, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Non-bearer scheme", func(t *testing.T) {
		rec := callWithAuth(t, middleware, "Basic secret-key")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware_JWT(t *testing.T) {
	const secret = "jwt-secret"
	middleware := api.AuthMiddleware("", secret)

	t.Run("Valid token", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
			"iat": time.Now().Unix(),
		})
		rec := callWithAuth(t, middleware, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{
			"sub": "user-1",
			"iat": time.Now().Unix(),
		})
		rec := callWithAuth(t, middleware, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing subject", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"iat": time.Now().Unix(),
		})
		rec := callWithAuth(t, middleware, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing issued-at", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
		})
		rec := callWithAuth(t, middleware, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		rec := callWithAuth(t, middleware, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		rec := callWithAuth(t, middleware, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware_KeyAndJWTTogether(t *testing.T) {
	const secret = "jwt-secret"
	middleware := api.AuthMiddleware("secret-key", secret)

	t.Run("API key still accepted", func(t *testing.T) {
		rec := callWithAuth(t, middleware, "Bearer secret-key")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("JWT still accepted", func(t *testing.T) {
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "user-1",
			"iat": time.Now().Unix(),
		})
		rec := callWithAuth(t, middleware, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
