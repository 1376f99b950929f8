package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/realtydesk/opsdesk/internal/domain"
	"github.com/realtydesk/opsdesk/internal/repository"
)

type contextKey string

// ContextKeyActor is the key for storing the authenticated actor in the
// request context.
const ContextKeyActor contextKey = "actor"

// AuthMiddleware resolves Bearer tokens to console actors. The resolved
// actor is threaded explicitly into every service call; nothing downstream
// reads identity from ambient state.
type AuthMiddleware struct {
	actorRepo *repository.ActorRepository
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(actorRepo *repository.ActorRepository) *AuthMiddleware {
	return &AuthMiddleware{actorRepo: actorRepo}
}

// Authenticate validates the Bearer token and adds the actor to the request
// context. Inactive actors are rejected here, before any handler runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		actor, err := m.actorRepo.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrActorNotFound) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		if !actor.IsActive {
			http.Error(w, "actor is inactive", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorFromContext extracts the authenticated actor from the context.
func GetActorFromContext(ctx context.Context) (*domain.Actor, error) {
	actor, ok := ctx.Value(ContextKeyActor).(*domain.Actor)
	if !ok || actor == nil {
		return nil, domain.ErrInvalidToken
	}
	return actor, nil
}
