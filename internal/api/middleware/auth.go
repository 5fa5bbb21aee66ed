package middleware

import (
	"net/http"

	"github.com/gatelog/server/internal/api/problem"
	"github.com/gatelog/server/internal/auth"
)

// AdminAuth guards the roster and reporting endpoints with the configured
// admin API key. With no key configured the whole admin surface answers 401
// rather than defaulting open.
func AdminAuth(verifier *auth.AdminKeyVerifier, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := verifier.VerifyRequest(r); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				problem.Write(w, r, http.StatusUnauthorized, "about:blank", "Unauthorized", err, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
