package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"account-service/internal/token"
)

const bearerPrefix = "Bearer "

type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

type usernameKey struct{}

func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey{}).(string)
	return username, ok && username != ""
}

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// Middleware verifies the bearer token and stores its username in the
// request context.
func Middleware(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), bearerPrefix)

		claims, err := verifier.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrNoToken) {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), claims.Username)))
	})
}
