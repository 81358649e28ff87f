package server

import (
	"context"
	"net/http"

	"traffic/pulse/internal/auth"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// userContextKey is the context key for storing the verified claims.
const userContextKey contextKey = "user"

// authMiddleware validates the bearer token on /v1 routes and stashes the
// claims in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.VerifyBearer(r.Header.Get("Authorization"))
		if err != nil {
			s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
			s.writeError(w, http.StatusUnauthorized, errUnauthorized, nil)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route on the role claim.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromContext(r.Context())
			if !ok || claims.Role != role {
				s.writeError(w, http.StatusForbidden, errForbidden, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// claimsFromContext retrieves the verified claims from the request context.
func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*auth.Claims)
	return claims, ok
}
