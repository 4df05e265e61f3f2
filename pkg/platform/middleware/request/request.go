// Package request provides request ID middleware and helpers for request
// correlation across logs and audit events.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"clubdir/pkg/requestcontext"
)

// HeaderRequestID is the inbound/outbound correlation header.
const HeaderRequestID = "X-Request-ID"

// Middleware assigns each request a correlation ID. An inbound X-Request-ID is
// trusted only for its presence; malformed values are replaced.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		w.Header().Set(HeaderRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}

// ClientSummary condenses a raw User-Agent into "browser/os" for audit events,
// keeping the full string out of long-retention logs.
func ClientSummary(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, _ := ua.Browser()
	os := ua.OSInfo().Name
	if name == "" {
		return os
	}
	if os == "" {
		return name
	}
	return name + "/" + os
}
