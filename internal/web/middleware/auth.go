package middleware

import (
	"net/http"
	"time"

	"github.com/ngamolsky/XtremeRepo/internal/auth"
	"github.com/ngamolsky/XtremeRepo/internal/logging"
)

// BearerAuth returns middleware that decodes the Authorization bearer
// token and stores its claims in the request context. Requests without a
// usable token get 401 before any other check runs.
//
// The token signature is not verified; see auth.UnverifiedClaims.
func BearerAuth(issuerHost string, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := auth.FromHeader(r.Header.Get("Authorization"), now(), issuerHost)
			if err != nil {
				RespondError(w, r, err, http.StatusUnauthorized)
				return
			}

			logging.FromContext(r.Context()).Debug("authenticated",
				"user_id", claims.UserID(),
				"email", claims.Email,
			)

			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}
