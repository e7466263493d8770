package web

import (
	"context"
	"net/http"
	"time"

	"github.com/ngamolsky/XtremeRepo/internal/logging"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// handleHealth reports liveness and, when configured, database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "disabled"}
	status := http.StatusOK

	if s.deps.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.deps.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).Warn("health: database ping failed", "error", err)
			resp = healthResponse{Status: "degraded", Database: "unreachable"}
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	writeJSON(w, r, status, resp)
}
