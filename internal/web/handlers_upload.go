package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngamolsky/XtremeRepo/internal/auth"
	"github.com/ngamolsky/XtremeRepo/internal/core"
	"github.com/ngamolsky/XtremeRepo/internal/logging"
)

// uploadResponse is the body of a successful upload.
type uploadResponse struct {
	Placements []core.Placement `json:"placements"`
	Results    []core.LegResult `json:"results"`
	Message    string           `json:"message"`
	User       uploadUser       `json:"user"`
}

type uploadUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// handleUpload classifies an uploaded CSV file and returns the records for
// review. Nothing is persisted. BearerAuth has already run.
//
// Checks, in order: method, content type, file field, extension.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := uuid.NewString()
	w.Header().Set("X-Upload-ID", uploadID)

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		s.deps.Metrics.UploadRejected(http.StatusUnauthorized)
		respondError(w, r, auth.ErrMissingToken, http.StatusUnauthorized)
		return
	}
	logger := logging.WithFields(r.Context(), "upload_id", uploadID, "user_id", claims.UserID())

	reject := func(err error, status int) {
		s.deps.Metrics.UploadRejected(status)
		respondError(w, r, err, status)
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		reject(fmt.Errorf("%w: %s", errMethodNotAllowed, r.Method), http.StatusMethodNotAllowed)
		return
	}

	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "multipart/form-data") {
		reject(fmt.Errorf("%w, got %q", errNotMultipart, ct), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			reject(fmt.Errorf("%w: limit %d bytes", errFileTooLarge, tooLarge.Limit), http.StatusBadRequest)
			return
		}
		reject(fmt.Errorf("%w: %v", errNoFile, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		reject(fmt.Errorf("%w: %v", errNoFile, err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := core.CheckFileName(header.Filename); err != nil {
		reject(err, http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		reject(fmt.Errorf("read upload: %w", err), http.StatusInternalServerError)
		return
	}

	start := time.Now()
	batch := core.ParseCSV(data)
	took := time.Since(start)

	s.deps.Metrics.UploadParsed(len(data), len(batch.Placements), len(batch.Results), batch.Dropped, took)
	logger.Info("upload parsed",
		"file", header.Filename,
		"bytes", len(data),
		"placements", len(batch.Placements),
		"results", len(batch.Results),
		"dropped", batch.Dropped,
		"duration_ms", took.Milliseconds(),
	)

	writeJSON(w, r, http.StatusOK, uploadResponse{
		Placements: batch.Placements,
		Results:    batch.Results,
		Message:    "Upload successful",
		User: uploadUser{
			ID:    claims.UserID(),
			Email: claims.Email,
		},
	})
}
