package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, a *app.App, broker *Broker, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoDash API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, a.Checks).Routes())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws/events", handleWSEvents(logger, broker))

	r.Route("/api", func(r chi.Router) {
		r.Use(requireJSONMiddleware)

		r.Get("/events", handleEvents(broker))
		r.Get("/meta", handleMeta())

		// Exploration.
		r.Get("/progress", handleGetProgress(a))
		r.Put("/progress/username", handleSetUsername(logger, a))
		r.With(passcodeMiddleware(opts.ResetPasscodeHash)).Delete("/progress", handleResetProgress(logger, a))
		r.Get("/territories", handleTerritories(a))
		r.Get("/pois", handleListPOIs(a))
		r.Get("/pois/{id}", handleGetPOI(logger, a))
		r.Post("/pois/{id}/capture", handleCapture(logger, a))

		// Games.
		r.Get("/games", handleListGames(a))
		r.With(passcodeMiddleware(opts.ResetPasscodeHash)).Delete("/games", handleResetGames(logger, a))
		r.Post("/games/unlocks", handleCheckUnlocks(logger, a))
		r.Get("/games/{id}", handleGetGame(logger, a))
		r.Post("/games/{id}/score", handleReportScore(logger, a))
		r.Post("/games/{id}/unlock", handleUnlockGame(logger, a))
		r.Post("/games/{id}/runs", handleStartRun(logger, a))
		r.Get("/stats", handleStats(a))
		r.Post("/stats/wins", handleRecordWin(logger, a))

		// Mini-game runs.
		r.Post("/runs/{runID}/events", handleRunEvent(logger, a))
		r.Post("/runs/{runID}/finish", handleFinishRun(logger, a))
		r.Delete("/runs/{runID}", handleCancelRun(logger, a))
	})

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
