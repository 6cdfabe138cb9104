package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustlens/internal/scoring"
	dErrors "trustlens/pkg/domain-errors"
	"trustlens/pkg/httputil"
)

// ConfigAdmin is the scoring configuration management surface.
type ConfigAdmin interface {
	PublishConfig(ctx context.Context, cfg *scoring.Config) error
	ListConfigs(ctx context.Context) ([]*scoring.Config, error)
	ActiveConfig(ctx context.Context) (*scoring.Config, error)
	Activate(ctx context.Context, versionKey string) error
}

// LoginService exchanges an operator key for a bearer token.
type LoginService interface {
	Login(ctx context.Context, operator, key string) (string, error)
}

// AdminHandler wires the operator endpoints.
type AdminHandler struct {
	configs ConfigAdmin
	login   LoginService
	logger  *slog.Logger
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Operator string `json:"operator"`
	Key      string `json:"key"`
}

// HandleLogin handles POST /v1/admin/login.
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[LoginRequest](w, r)
	if !ok {
		return
	}

	token, err := h.login.Login(ctx, req.Operator, req.Key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "Bearer"})
}

// HandlePublishConfig handles POST /v1/admin/configs. The body is a full
// configuration document; it is validated before it is stored and is never
// active on publish.
func (h *AdminHandler) HandlePublishConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, ok := httputil.DecodeJSON[scoring.Config](w, r)
	if !ok {
		return
	}

	if err := h.configs.PublishConfig(ctx, &cfg); err != nil {
		if scoring.IsConfigError(err) {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "configuration rejected"))
			return
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "scoring config published", "version", cfg.VersionKey)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"version_key": cfg.VersionKey})
}

// HandleListConfigs handles GET /v1/admin/configs.
func (h *AdminHandler) HandleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.configs.ListConfigs(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"configs": configs})
}

// HandleActiveConfig handles GET /v1/admin/configs/active.
func (h *AdminHandler) HandleActiveConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configs.ActiveConfig(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cfg)
}

// HandleActivateConfig handles POST /v1/admin/configs/{versionKey}/activate.
func (h *AdminHandler) HandleActivateConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	versionKey := chi.URLParam(r, "versionKey")

	if err := h.configs.Activate(ctx, versionKey); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "scoring config activated", "version", versionKey)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"active_version": versionKey})
}
