package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// BearerToken extracts the bearer credential from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// Middleware resolves the bearer credential into an identity on every
// request. A missing or stale token proceeds unauthenticated without
// surfacing an error; route guards downstream decide what that means.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			identity, err := service.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, shared.ErrUnauthenticated) && logger != nil {
					logger.Error("resolve token", slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
