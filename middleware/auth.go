package middleware

import (
	"net/http"
	"strings"

	c "smarticket-api/context"
	"smarticket-api/logger"
	"smarticket-api/response"
	"smarticket-api/token"
)

// Authenticate validates the bearer token and stashes the caller's email and
// claim set in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Unauthorized().Send(r.Context(), w)
				return
			}

			email, claims, err := token.Verify(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				logger.Infof(r.Context(), "authenticate: rejecting token: %+v", err)
				response.Unauthorized().Send(r.Context(), w)
				return
			}

			ctx := c.SetContextWithValue(r.Context(), c.ContextKeyEmail, email)
			ctx = c.SetContextClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireClaim gates a handler behind a named policy claim. It runs after
// Authenticate and replies forbidden when the claim is absent.
func RequireClaim(claimType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := c.GetContextClaims(r.Context())
			if _, ok := claims[claimType]; !ok {
				response.Forbidden().Send(r.Context(), w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
