package middleware

import (
	"net/http"
	"strings"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/infrastructure/auth"
)

const (
	// OwnerIDHeader identifies the caller when token auth is disabled.
	OwnerIDHeader = "X-Owner-ID"
	// OwnerEmailHeader optionally carries the caller email alongside OwnerIDHeader.
	OwnerEmailHeader = "X-Owner-Email"
)

// AuthMiddleware verifies a Bearer token and attaches the owner to the
// request context.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			owner := &domain.Owner{
				ID:    claims.OwnerID,
				Email: claims.Email,
			}

			ctx := domain.ContextWithOwner(r.Context(), owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerHeaders attaches the owner from trusted headers. Used in deployments
// where an upstream proxy terminates authentication.
func OwnerHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get(OwnerIDHeader)
		if ownerID == "" {
			http.Error(w, "missing owner header", http.StatusUnauthorized)
			return
		}

		owner := &domain.Owner{
			ID:    ownerID,
			Email: r.Header.Get(OwnerEmailHeader),
		}

		ctx := domain.ContextWithOwner(r.Context(), owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
