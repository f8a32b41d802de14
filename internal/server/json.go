package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/playperu/geodash/internal/geodash"
	"github.com/playperu/geodash/internal/kv"
	"github.com/playperu/geodash/internal/minigame"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// readJSON decodes the request body into v. An empty body leaves v as is.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps progression errors to HTTP statuses. Anything
// unrecognised is logged and reported as an internal error.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, geodash.ErrGameNotFound),
		errors.Is(err, geodash.ErrPOINotFound),
		errors.Is(err, minigame.ErrRunNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, geodash.ErrNegativeScore),
		errors.Is(err, geodash.ErrScoreOverflow),
		errors.Is(err, geodash.ErrInvalidUsername),
		errors.Is(err, geodash.ErrInvalidTerritory),
		errors.Is(err, geodash.ErrInvalidPOI),
		errors.Is(err, geodash.ErrInvalidLocation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, minigame.ErrRunClosed),
		errors.Is(err, kv.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
