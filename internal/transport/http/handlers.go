package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trustlens/internal/agents"
	"trustlens/internal/scoring"
	"trustlens/internal/verify"
	dErrors "trustlens/pkg/domain-errors"
	"trustlens/pkg/httputil"
)

// VerifyService is the name-based verification surface.
type VerifyService interface {
	Verify(ctx context.Context, req verify.Request) (*verify.Result, error)
	VerifyBatch(ctx context.Context, reqs []verify.Request) []*verify.Result
}

// PipelineService is the firm-based evidence and scoring surface.
type PipelineService interface {
	VerifyFirm(ctx context.Context, firmID string) (agents.FirmResult, error)
	ScoreFirm(ctx context.Context, firmID string) (*scoring.Snapshot, error)
	LatestScore(ctx context.Context, firmID string) (*scoring.Snapshot, error)
	ScoreHistory(ctx context.Context, firmID string) ([]*scoring.Snapshot, error)
}

// Handler wires the public endpoints to the services.
type Handler struct {
	verify   VerifyService
	pipeline PipelineService
	logger   *slog.Logger
}

// VerifyRequest is the name-based verification request body.
type VerifyRequest struct {
	FirmName string `json:"firm_name"`
	Country  string `json:"country,omitempty"`
}

// BatchVerifyRequest carries up to batchLimit verification requests.
type BatchVerifyRequest struct {
	Requests []VerifyRequest `json:"requests"`
}

const batchLimit = 50

// HandleVerify handles POST /v1/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.DecodeJSON[VerifyRequest](w, r)
	if !ok {
		return
	}
	if req.FirmName == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "firm_name is required"))
		return
	}

	result, err := h.verify.Verify(ctx, verify.Request{FirmName: req.FirmName, Country: req.Country})
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed", "firm_name", req.FirmName, "error", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification served",
		"firm_name", req.FirmName,
		"overall_status", result.Overall,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleVerifyBatch handles POST /v1/verify/batch. The response preserves
// request order.
func (h *Handler) HandleVerifyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[BatchVerifyRequest](w, r)
	if !ok {
		return
	}
	if len(req.Requests) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "requests must not be empty"))
		return
	}
	if len(req.Requests) > batchLimit {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "too many requests in batch"))
		return
	}

	domainReqs := make([]verify.Request, len(req.Requests))
	for i, item := range req.Requests {
		domainReqs[i] = verify.Request{FirmName: item.FirmName, Country: item.Country}
	}

	results := h.verify.VerifyBatch(ctx, domainReqs)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

// HandleFirmVerify handles POST /v1/firms/{firmID}/verify.
func (h *Handler) HandleFirmVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := chi.URLParam(r, "firmID")

	result, err := h.pipeline.VerifyFirm(ctx, firmID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleFirmScore handles POST /v1/firms/{firmID}/score.
func (h *Handler) HandleFirmScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := chi.URLParam(r, "firmID")
	start := time.Now()

	snap, err := h.pipeline.ScoreFirm(ctx, firmID)
	if err != nil {
		h.logger.ErrorContext(ctx, "scoring failed", "firm_id", firmID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "firm scored",
		"firm_id", firmID,
		"version", snap.VersionKey,
		"score", snap.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleFirmLatestScore handles GET /v1/firms/{firmID}/score.
func (h *Handler) HandleFirmLatestScore(w http.ResponseWriter, r *http.Request) {
	snap, err := h.pipeline.LatestScore(r.Context(), chi.URLParam(r, "firmID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleFirmScoreHistory handles GET /v1/firms/{firmID}/score/history.
func (h *Handler) HandleFirmScoreHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.pipeline.ScoreHistory(r.Context(), chi.URLParam(r, "firmID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"snapshots": history})
}
