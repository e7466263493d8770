package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ngamolsky/XtremeRepo/internal/auth"
	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/ngamolsky/XtremeRepo/internal/logging"
	mw "github.com/ngamolsky/XtremeRepo/internal/web/middleware"
)

// commitRequest is the reviewed batch a client sends back after upload.
type commitRequest struct {
	Placements []core.Placement `json:"placements"`
	Results    []core.LegResult `json:"results"`
}

type commitResponse struct {
	Placements int64  `json:"placements"`
	Results    int64  `json:"results"`
	Message    string `json:"message"`
}

// validationResponse lists every field problem so the client can mark them.
type validationResponse struct {
	mw.ErrorResponse
	Issues core.ValidationErrors `json:"issues"`
}

// handleCommit validates a reviewed batch and upserts it in one transaction.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	reject := func(err error, status int) {
		s.deps.Metrics.CommitRejected(status)
		respondError(w, r, err, status)
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		reject(fmt.Errorf("%w: %s", errMethodNotAllowed, r.Method), http.StatusMethodNotAllowed)
		return
	}
	if s.deps.Store == nil {
		reject(errStorageUnavailable, http.StatusServiceUnavailable)
		return
	}

	var req commitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize))
	if err := dec.Decode(&req); err != nil {
		reject(fmt.Errorf("%w: %v", errInvalidJSON, err), http.StatusBadRequest)
		return
	}

	batch := core.NewBatch()
	batch.Placements = append(batch.Placements, req.Placements...)
	batch.Results = append(batch.Results, req.Results...)
	if batch.Total() == 0 {
		reject(errNothingToCommit, http.StatusBadRequest)
		return
	}

	if err := core.Validate(batch); err != nil {
		var issues core.ValidationErrors
		if !errors.As(err, &issues) {
			reject(err, http.StatusUnprocessableEntity)
			return
		}
		s.deps.Metrics.CommitRejected(http.StatusUnprocessableEntity)
		logging.FromContext(r.Context()).Warn("commit rejected", "issues", len(issues))

		msg := core.MapError(err)
		writeJSON(w, r, http.StatusUnprocessableEntity, validationResponse{
			ErrorResponse: mw.ErrorResponse{
				Error:   http.StatusText(http.StatusUnprocessableEntity),
				Message: msg.Message,
				Action:  msg.Action,
				Code:    msg.Code,
			},
			Issues: issues,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.QueryTimeout)
	defer cancel()

	res, err := s.deps.Store.Commit(ctx, batch)
	if err != nil {
		reject(err, commitErrorStatus(err))
		return
	}

	s.deps.Metrics.Committed(len(batch.Placements), len(batch.Results))
	logging.FromContext(r.Context()).Info("commit stored",
		"user_id", auth.ClaimsFromContext(r.Context()).UserID(),
		"placements", res.Placements,
		"results", res.Results,
	)

	writeJSON(w, r, http.StatusOK, commitResponse{
		Placements: res.Placements,
		Results:    res.Results,
		Message:    "Commit successful",
	})
}

// commitErrorStatus maps integrity violations (SQLSTATE class 23) to 409
// and timeouts to 504. Everything else is a server error.
func commitErrorStatus(err error) int {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23":
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
