package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/croswell/inventario/pkg/ctxutil"
)

type tokenVerifier interface {
	VerifyDomainToken(token string) (uuid.UUID, string, error)
}

// Auth returns middleware that validates a Bearer token and stores the
// domain scope and acting principal in the request context. Requests
// without a token pass through anonymously; handlers that require a
// domain scope reject them.
func Auth(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			domainID, actor, err := verifier.VerifyDomainToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithDomainID(r.Context(), domainID)
			if actor != "" {
				ctx = ctxutil.WithActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
