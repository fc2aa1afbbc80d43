// Package service implements the registry operation layer: every public
// operation validates its inputs, checks the caller's standing against the
// record store and access matrix, mutates state, and returns a typed result.
// Validation and authorization failures are detected before any mutation, so
// a failed operation never leaves partial writes behind.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"provreg/internal/audit"
	registrymetrics "provreg/internal/registry/metrics"
	"provreg/internal/registry/models"
	dErrors "provreg/pkg/domain-errors"
	"provreg/pkg/platform/sentinel"
	"provreg/pkg/requestcontext"
)

// RecordStore persists provenance records and owns the identifier sequence.
// Execute and Delete run validate under the store's write lock so the
// authorization check and the mutation it guards are atomic.
type RecordStore interface {
	Register(ctx context.Context, rec *models.ProvenanceRecord) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*models.ProvenanceRecord, error)
	Execute(ctx context.Context, id uint64,
		validate func(*models.ProvenanceRecord) error,
		mutate func(*models.ProvenanceRecord)) (*models.ProvenanceRecord, error)
	Delete(ctx context.Context, id uint64, validate func(*models.ProvenanceRecord) error) error
	Sequence(ctx context.Context) (uint64, error)
}

// GrantStore is the access matrix: per-(record, principal) read authorization.
type GrantStore interface {
	Grant(ctx context.Context, recordID uint64, accessor string) error
	Revoke(ctx context.Context, recordID uint64, accessor string) error
	Authorized(ctx context.Context, recordID uint64, accessor string) (bool, error)
}

// Service is the registry operation layer. The administrator principal is
// fixed at construction, mirroring the identity that initialized the system.
type Service struct {
	records RecordStore
	grants  GrantStore
	admin   string
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *registrymetrics.Metrics
	audit   *audit.Publisher
}

type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.audit = p }
}

func New(records RecordStore, grants GrantStore, admin string, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		records: records,
		grants:  grants,
		admin:   admin,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		audit:   cfg.audit,
		tracer:  otel.Tracer("provreg/registry"),
	}
}

// caller extracts the authenticated principal, rejecting anonymous contexts.
func (s *Service) caller(ctx context.Context) (string, error) {
	caller := requestcontext.Principal(ctx)
	if caller == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	return caller, nil
}

// custodianOnly builds the validate callback shared by every custodian-gated
// mutation.
func custodianOnly(caller string) func(*models.ProvenanceRecord) error {
	return func(rec *models.ProvenanceRecord) error {
		if rec.Custodian != caller {
			return dErrors.New(dErrors.CodeOwnershipMismatch, "caller is not the record custodian")
		}
		return nil
	}
}

// canRead is the single read-authorization predicate: custodian, active
// grant, or administrator. Factored once so the rule cannot drift between
// analytics and verification.
func (s *Service) canRead(ctx context.Context, rec *models.ProvenanceRecord, caller string) (bool, error) {
	if rec.Custodian == caller || caller == s.admin {
		return true, nil
	}
	granted, err := s.grants.Authorized(ctx, rec.ID, caller)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check access grant")
	}
	return granted, nil
}

// translateLookup maps store sentinels onto the registry's error vocabulary.
func translateLookup(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeMissingRecord, "record does not exist")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "record store failure")
}

// emitAudit records a successful mutation. Audit is best-effort here: a sink
// failure is logged, never surfaced to the caller.
func (s *Service) emitAudit(ctx context.Context, action audit.Action, recordID uint64, detail string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Principal: requestcontext.Principal(ctx),
		RecordID:  recordID,
		Action:    action,
		Detail:    detail,
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(action),
			"record_id", recordID,
			"error", err,
		)
	}
}

func (s *Service) countAuthzFailure(err error) {
	if s.metrics == nil {
		return
	}
	if dErrors.HasCode(err, dErrors.CodeOwnershipMismatch) ||
		dErrors.HasCode(err, dErrors.CodeUnauthorized) ||
		dErrors.HasCode(err, dErrors.CodeAdminRequired) {
		s.metrics.AuthorizationFailures.Inc()
	}
}
