package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware returns a middleware enforcing bearer authentication on the
// API. A token is accepted when it equals the static API key or parses as an
// HMAC-signed JWT carrying `sub` and `iat` claims. With neither an API key
// nor a JWT secret configured the middleware is a pass-through, which keeps
// local development friction-free.
func AuthMiddleware(apiKey, jwtSecret string) func(http.Handler) http.Handler {
	enabled := apiKey != "" || jwtSecret != ""

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondWithJSON(w, http.StatusUnauthorized, APIResponse{Success: false, Error: "Unauthorized: Missing or invalid Authorization header"})
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			if apiKey != "" && token == apiKey {
				next.ServeHTTP(w, r)
				return
			}
			if jwtSecret != "" && verifyJWT(token, jwtSecret) {
				next.ServeHTTP(w, r)
				return
			}

			respondWithJSON(w, http.StatusUnauthorized, APIResponse{Success: false, Error: "Unauthorized: Invalid token"})
		})
	}
}

// verifyJWT checks signature and the presence of subject and issued-at.
func verifyJWT(tokenString, secret string) bool {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return false
	}
	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return false
	}
	return true
}
