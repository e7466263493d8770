package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/ngamolsky/XtremeRepo/internal/store"
)

type seasonsResponse struct {
	Seasons []core.Placement `json:"seasons"`
}

// handleListSeasons returns every season's placement, newest first.
func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		respondError(w, r, errStorageUnavailable, http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.QueryTimeout)
	defer cancel()

	placements, err := s.deps.Store.ListPlacements(ctx)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if placements == nil {
		placements = []core.Placement{}
	}

	writeJSON(w, r, http.StatusOK, seasonsResponse{Seasons: placements})
}

// handleSeason returns one season's placement, results and total time.
func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		respondError(w, r, errStorageUnavailable, http.StatusServiceUnavailable)
		return
	}

	year, err := core.ParseInt(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.QueryTimeout)
	defer cancel()

	season, err := s.deps.Store.Season(ctx, year)
	switch {
	case errors.Is(err, store.ErrSeasonNotFound):
		respondError(w, r, err, http.StatusNotFound)
		return
	case err != nil:
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, season)
}
