// Package http mounts the service's HTTP surface: verification and scoring
// endpoints, the admin configuration API, health and metrics.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trustlens/internal/auth"
)

// Deps carries everything the router mounts.
type Deps struct {
	Verify   VerifyService
	Pipeline PipelineService
	Configs  ConfigAdmin
	Login    LoginService
	Tokens   auth.TokenValidator
	Logger   *slog.Logger
}

// NewRouter assembles the full route tree.
func NewRouter(deps Deps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	h := &Handler{
		verify:   deps.Verify,
		pipeline: deps.Pipeline,
		logger:   logger,
	}
	a := &AdminHandler{
		configs: deps.Configs,
		login:   deps.Login,
		logger:  logger,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/verify", h.HandleVerify)
		r.Post("/verify/batch", h.HandleVerifyBatch)

		r.Route("/firms/{firmID}", func(r chi.Router) {
			r.Post("/verify", h.HandleFirmVerify)
			r.Post("/score", h.HandleFirmScore)
			r.Get("/score", h.HandleFirmLatestScore)
			r.Get("/score/history", h.HandleFirmScoreHistory)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", a.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(deps.Tokens, logger))
				r.Post("/configs", a.HandlePublishConfig)
				r.Get("/configs", a.HandleListConfigs)
				r.Get("/configs/active", a.HandleActiveConfig)
				r.Post("/configs/{versionKey}/activate", a.HandleActivateConfig)
			})
		})
	})

	return r
}
