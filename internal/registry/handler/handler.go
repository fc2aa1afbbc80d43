// Package handler is the thin HTTP layer over the registry service. It
// decodes requests, delegates, and writes typed responses; no business logic
// lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"provreg/internal/platform/metrics"
	"provreg/internal/platform/middleware"
	"provreg/internal/registry/models"
	dErrors "provreg/pkg/domain-errors"
	"provreg/pkg/platform/httputil"
	"provreg/pkg/requestcontext"
)

// Service defines the registry operations the handler exposes.
type Service interface {
	Register(ctx context.Context, designation string, footprint uint64, summary string, labels []string) (uint64, error)
	Revise(ctx context.Context, id uint64, designation string, footprint uint64, summary string, labels []string) error
	TransferCustody(ctx context.Context, id uint64, successor string) error
	GrantAccess(ctx context.Context, id uint64, accessor string) error
	RevokeAccess(ctx context.Context, id uint64, accessor string) error
	Eliminate(ctx context.Context, id uint64) error
	AugmentLabels(ctx context.Context, id uint64, extra []string) ([]string, error)
	MarkArchival(ctx context.Context, id uint64) error
	GetAnalytics(ctx context.Context, id uint64) (*models.Analytics, error)
	VerifyAuthenticity(ctx context.Context, id uint64, claimed string) (*models.Verification, error)
	Diagnostics(ctx context.Context) (*models.Diagnostics, error)
	SecurityProtocol(ctx context.Context, id uint64) error
}

// Handler handles registry endpoints.
type Handler struct {
	logger    *slog.Logger
	registry  Service
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
	timeout   time.Duration
}

func New(registry Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		registry:  registry,
		metrics:   m,
		validator: validator,
		timeout:   30 * time.Second,
	}
}

// Register mounts the registry routes with the standard middleware chain.
func (h *Handler) Register(r chi.Router) {
	rr := chi.NewRouter()
	rr.Use(middleware.Recovery(h.logger))
	rr.Use(middleware.RequestID)
	rr.Use(middleware.RequestTime)
	rr.Use(middleware.Logger(h.logger))
	rr.Use(middleware.Timeout(h.timeout))
	rr.Use(middleware.ContentTypeJSON)
	rr.Use(middleware.Latency(h.metrics))
	rr.Use(middleware.Tracing)
	rr.Use(middleware.RequireAuth(h.validator, h.logger))

	rr.Post("/records", h.handleRegister)
	rr.Put("/records/{id}", h.handleRevise)
	rr.Post("/records/{id}/custody", h.handleTransferCustody)
	rr.Post("/records/{id}/access", h.handleGrantAccess)
	rr.Post("/records/{id}/access/revoke", h.handleRevokeAccess)
	rr.Delete("/records/{id}", h.handleEliminate)
	rr.Post("/records/{id}/labels", h.handleAugmentLabels)
	rr.Post("/records/{id}/archive", h.handleMarkArchival)
	rr.Get("/records/{id}/analytics", h.handleGetAnalytics)
	rr.Post("/records/{id}/verify", h.handleVerifyAuthenticity)
	rr.Post("/records/{id}/security-protocol", h.handleSecurityProtocol)
	rr.Get("/diagnostics", h.handleDiagnostics)

	r.Mount("/", rr)
}

// recordID parses the {id} path parameter. Identifiers are positive integers.
func recordID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "record identifier must be a positive integer")
	}
	return id, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), "operation failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRecordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	id, err := h.registry.Register(r.Context(), req.AssetDesignation, req.BinaryFootprint,
		req.DescriptiveSummary, req.ClassificationLabels)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registerResponse{RecordIdentifier: id})
}

func (h *Handler) handleRevise(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.ReviseRecordRequest
	if !h.decode(w, r, &req) {
		return
	}

	err = h.registry.Revise(r.Context(), id, req.AssetDesignation, req.BinaryFootprint,
		req.DescriptiveSummary, req.ClassificationLabels)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTransferCustody(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.TransferCustodyRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.TransferCustody(r.Context(), id, req.Successor); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.GrantAccessRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.GrantAccess(r.Context(), id, req.Accessor); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.RevokeAccessRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.RevokeAccess(r.Context(), id, req.Accessor); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEliminate(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.Eliminate(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAugmentLabels(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.AugmentLabelsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	merged, err := h.registry.AugmentLabels(r.Context(), id, req.Labels)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, labelsResponse{ClassificationLabels: merged})
}

func (h *Handler) handleMarkArchival(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.MarkArchival(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	analytics, err := h.registry.GetAnalytics(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analytics)
}

func (h *Handler) handleVerifyAuthenticity(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.VerifyAuthenticityRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	verification, err := h.registry.VerifyAuthenticity(r.Context(), id, req.Custodian)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verification)
}

func (h *Handler) handleSecurityProtocol(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.registry.SecurityProtocol(r.Context(), id); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	diag, err := h.registry.Diagnostics(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, diag)
}
