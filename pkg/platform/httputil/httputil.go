// Package httputil centralizes JSON encoding and domain-error translation for
// HTTP handlers, keeping transport envelopes consistent across endpoints.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "clubdir/pkg/domain-errors"
)

// Preparer is implemented by request payloads that validate and normalize
// themselves after decoding.
type Preparer interface {
	Prepare() error
}

// WriteJSON encodes v with the given status. Encoding failures are logged by
// net/http's panic recovery; there is nothing useful to send at that point.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// errors omit the description so store details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		var e *dErrors.Error
		if errors.As(err, &e) && e.Message != "" {
			body["error_description"] = e.Message
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

// DecodeAndPrepare decodes the request body into T and runs its Prepare hook.
// On failure it writes the error response and returns ok=false; handlers just
// return.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "malformed request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON body"))
		return req, false
	}
	if p, ok := any(&req).(Preparer); ok {
		if err := p.Prepare(); err != nil {
			WriteError(w, err)
			return req, false
		}
	}
	return req, true
}
