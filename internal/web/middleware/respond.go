package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/ngamolsky/XtremeRepo/internal/logging"
)

// ErrorResponse is the JSON body of every error reply.
// Code is machine-readable; Message and Action are meant for people.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// RespondError logs err with request context and writes the mapped user
// message. Technical detail never reaches the client.
func RespondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
