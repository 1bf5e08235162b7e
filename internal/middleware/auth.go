package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier resolves a bearer token to the identity it was issued for
type TokenVerifier interface {
	Identity(token string) (string, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the token identity on the request context.
func AuthMiddleware(verifier TokenVerifier, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if header == "" || !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, "Token de acesso ausente")
				return
			}

			identity, err := verifier.Identity(token)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Debug("Rejected bearer token")
				unauthorized(w, "Token inválido ou expirado")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext returns the identity stored by AuthMiddleware
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey).(string)
	return identity, ok && identity != ""
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
