package http

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/greenbridge-eco/greenbridge/internal/auth"
	"github.com/greenbridge-eco/greenbridge/internal/http/ban"
	rl "github.com/greenbridge-eco/greenbridge/internal/http/rate_limiter"
)

type contextKey string

const claimsKey = contextKey("claims")

// AuthMiddleware rejects requests without a valid bearer token and stores the
// claims on the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		token, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ClaimsFromToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows only the given roles past. Mount inside AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r)
			if !ok || !allowed[claims.Role] {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims returns the authenticated claims stored by AuthMiddleware.
func GetClaims(r *http.Request) (auth.TokenClaims, bool) {
	claims, ok := r.Context().Value(claimsKey).(auth.TokenClaims)
	return claims, ok
}

// RateLimitMiddleware throttles by client IP. Clients that keep hammering a
// throttled endpoint collect strikes and get banned outright for a while.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ban.IsBanned(ip) {
			http.Error(w, "temporarily banned", http.StatusTooManyRequests)
			return
		}
		if !rl.GetVisitor(ip).Allow() {
			ban.RecordStrike(ip, r.URL.Path)
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
