package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dan9191/grocery-store/internal/auth"
	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/gorilla/mux"
)

const claimsKey contextKey = "claims"

// Authenticator resolves a bearer token to its claims
type Authenticator interface {
	Authenticate(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid bearer token
func Auth(a Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w, "Authorization header required")
				return
			}

			claims, err := a.Authenticate(strings.TrimSpace(token))
			if errors.Is(err, common.ErrTokenExpired) {
				unauthorized(w, "Token expired")
				return
			}
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Auth
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	payload, err := json.Marshal(models.Response{Success: false, Message: message})
	if err != nil {
		http.Error(w, message, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write(append(payload, '\n'))
}
