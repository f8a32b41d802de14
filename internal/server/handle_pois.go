package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/geo"
	"github.com/playperu/geodash/internal/geodash"
)

// CaptureRequest is the request body for POST /api/pois/{id}/capture. A null
// location means the client has no position fix.
type CaptureRequest struct {
	Location *geodash.Coordinate `json:"location"`
}

// handleListPOIs returns the current POI set. With lat and lon query
// parameters the set is regenerated around that point first.
func handleListPOIs(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if !q.Has("lat") && !q.Has("lon") {
			writeJSON(w, http.StatusOK, a.Explorer.POIs())
			return
		}

		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		center := geodash.Coordinate{Latitude: lat, Longitude: lon}
		if errLat != nil || errLon != nil || !geo.Valid(center) {
			writeError(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
			return
		}
		writeJSON(w, http.StatusOK, a.RefreshPOIs(center))
	}
}

func handleGetPOI(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poi, err := a.Explorer.POI(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, poi)
	}
}

func handleCapture(logger *slog.Logger, a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CaptureRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := a.Capture(r.Context(), chi.URLParam(r, "id"), req.Location)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
