package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "clubdir/pkg/domain"
	"clubdir/pkg/platform/middleware/request"
	"clubdir/pkg/requestcontext"
)

// PrincipalValidator turns a bearer token into the principal it was issued
// to. The handler layer stays ignorant of JWT libraries.
type PrincipalValidator func(tokenString string) (id.PrincipalID, error)

// RequirePrincipal authenticates the caller and stores its principal id in
// the request context. Decision endpoints refuse anonymous callers outright;
// there is no guest evaluation mode.
func RequirePrincipal(validate PrincipalValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			principal, err := validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithPrincipalID(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
