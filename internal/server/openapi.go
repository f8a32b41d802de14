package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/exploration"
	"github.com/playperu/geodash/internal/geodash"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse documents GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Checks map[string]struct {
		Status    string `json:"status"`
		LatencyMS int64  `json:"latencyMs"`
	} `json:"checks"`
}

type idPath struct {
	ID string `path:"id"`
}

type runPath struct {
	RunID string `path:"runID"`
}

type poiQuery struct {
	Lat *float64 `query:"lat" description:"Viewport latitude; regenerates the POI set with lon."`
	Lon *float64 `query:"lon" description:"Viewport longitude."`
}

type passcodeHeaderParam struct {
	Passcode string `header:"X-Reset-Passcode" description:"Required when a reset passcode is configured."`
}

type captureInput struct {
	idPath
	CaptureRequest
}

type scoreInput struct {
	idPath
	ScoreRequest
}

type startRunInput struct {
	idPath
	StartRunRequest
}

type runEventInput struct {
	runPath
	RunEventRequest
}

// op describes one documented operation.
type op struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
}

var operations = []op{
	{method: http.MethodGet, path: "/healthz", summary: "Health check",
		description: "Returns the health status of the storage backend.",
		resp:        HealthResponse{}, status: http.StatusOK, errors: []int{http.StatusServiceUnavailable}},

	{method: http.MethodGet, path: "/api/meta", summary: "Display metadata",
		description: "Icons, colors and descriptions for categories, difficulties, challenge kinds and territories.",
		resp:        MetaResponse{}, status: http.StatusOK},

	{method: http.MethodGet, path: "/api/progress", summary: "Get progress",
		description: "Returns the exploration progress record.",
		resp:        geodash.UserData{}, status: http.StatusOK},
	{method: http.MethodPut, path: "/api/progress/username", summary: "Set username",
		description: "Renames the player. Names are trimmed and must be 1-32 characters.",
		req:         UsernameRequest{}, resp: geodash.UserData{}, status: http.StatusOK, errors: []int{http.StatusBadRequest}},
	{method: http.MethodDelete, path: "/api/progress", summary: "Reset exploration",
		description: "Erases exploration progress.",
		req:         passcodeHeaderParam{}, resp: geodash.UserData{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},
	{method: http.MethodGet, path: "/api/territories", summary: "List territories",
		description: "Returns every territory with its unlock state and remaining captures.",
		resp:        []TerritoryItem{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/pois", summary: "List POIs",
		description: "Returns the current points of interest. Passing lat and lon regenerates them around that point.",
		req:         poiQuery{}, resp: []geodash.POI{}, status: http.StatusOK, errors: []int{http.StatusBadRequest}},
	{method: http.MethodGet, path: "/api/pois/{id}", summary: "Get POI",
		req: idPath{}, resp: geodash.POI{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/pois/{id}/capture", summary: "Capture POI",
		description: "Attempts a capture from the given location. Proximity failures are reported as outcomes, not errors.",
		req:         captureInput{}, resp: exploration.Result{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusNotFound}},

	{method: http.MethodGet, path: "/api/games", summary: "List games",
		description: "Returns the mini-game catalog in display order.",
		resp:        []geodash.MiniGame{}, status: http.StatusOK},
	{method: http.MethodDelete, path: "/api/games", summary: "Reset games",
		description: "Cancels live runs and restores the seed catalog with zeroed statistics.",
		req:         passcodeHeaderParam{}, resp: GamesResetResponse{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},
	{method: http.MethodPost, path: "/api/games/unlocks", summary: "Check unlocks",
		description: "Unlocks every game whose requirement is covered by the total score.",
		resp:        UnlocksResponse{}, status: http.StatusOK},
	{method: http.MethodGet, path: "/api/games/{id}", summary: "Get game",
		req: idPath{}, resp: geodash.MiniGame{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/games/{id}/score", summary: "Report score",
		description: "Records a finished play and runs the unlock check.",
		req:         scoreInput{}, resp: app.ScoreResult{}, status: http.StatusOK,
		errors: []int{http.StatusBadRequest, http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/games/{id}/unlock", summary: "Unlock game",
		req: idPath{}, resp: geodash.MiniGame{}, status: http.StatusOK, errors: []int{http.StatusNotFound}},
	{method: http.MethodPost, path: "/api/games/{id}/runs", summary: "Start run",
		description: "Starts a timed play. The score is reported when the run is finished or its time runs out.",
		req:         startRunInput{}, resp: RunResponse{}, status: http.StatusCreated,
		errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict}},
	{method: http.MethodGet, path: "/api/stats", summary: "Player statistics",
		resp: geodash.PlayerStats{}, status: http.StatusOK},
	{method: http.MethodPost, path: "/api/stats/wins", summary: "Record win",
		resp: geodash.PlayerStats{}, status: http.StatusOK},

	{method: http.MethodPost, path: "/api/runs/{runID}/events", summary: "Add run event",
		description: "Scores one event with the game's rule.",
		req:         runEventInput{}, resp: RunResponse{}, status: http.StatusOK,
		errors: []int{http.StatusNotFound, http.StatusConflict}},
	{method: http.MethodPost, path: "/api/runs/{runID}/finish", summary: "Finish run",
		req: runPath{}, resp: FinishRunResponse{}, status: http.StatusOK,
		errors: []int{http.StatusNotFound, http.StatusConflict}},
	{method: http.MethodDelete, path: "/api/runs/{runID}", summary: "Cancel run",
		description: "Abandons the run. No score is reported.",
		req:         runPath{}, status: http.StatusNoContent, errors: []int{http.StatusNotFound, http.StatusConflict}},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoDash API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Local API for the GeoDash exploration and mini-game progression.")

	for _, o := range operations {
		oc, err := r.NewOperationContext(o.method, o.path)
		if err != nil {
			continue
		}
		oc.SetSummary(o.summary)
		if o.description != "" {
			oc.SetDescription(o.description)
		}
		if o.req != nil {
			oc.AddReqStructure(o.req)
		}
		oc.AddRespStructure(o.resp, openapi.WithHTTPStatus(o.status))
		for _, status := range o.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		if requiresJSON(o.method) {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnsupportedMediaType))
		}
		_ = r.AddOperation(oc)
	}

	// Streams.
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE change stream")
	getEvents.SetDescription("Server-Sent Events stream of committed progression changes.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/events")
	getWS.SetSummary("WebSocket change stream")
	getWS.SetDescription("Upgrades to a WebSocket that carries the same events as /api/events.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
