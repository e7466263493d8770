package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ngamolsky/XtremeRepo/internal/logging"
	mw "github.com/ngamolsky/XtremeRepo/internal/web/middleware"
)

// Request errors. Their text feeds core.MapError.
var (
	errMethodNotAllowed   = errors.New("method not allowed")
	errNotMultipart       = errors.New("expected multipart/form-data")
	errNoFile             = errors.New("no file uploaded")
	errFileTooLarge       = errors.New("file too large")
	errInvalidJSON        = errors.New("invalid json")
	errNothingToCommit    = errors.New("nothing to commit")
	errStorageUnavailable = errors.New("storage not configured")
)

// respondError logs err and writes the sanitized JSON error body.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	mw.RespondError(w, r, err, status)
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
