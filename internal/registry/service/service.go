// Package service implements the work-record registry operations on top of a
// pluggable store, verifier authorization, and audit trail.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"workledger/internal/audit"
	"workledger/internal/authz"
	"workledger/internal/platform/metrics"
	"workledger/internal/registry/models"
	"workledger/internal/registry/store"
	"workledger/internal/registry/tracer"
	"workledger/internal/sentinel"
	pkgerrors "workledger/pkg/domain-errors"
)

// Store defines the persistence interface for work records.
// Error Contract:
// - Get and Verify return sentinel.ErrNotFound when no record with the id exists
// - Verify returns sentinel.ErrAlreadyVerified when the record is already verified
// - Other failures are wrapped errors
type Store interface {
	Add(ctx context.Context, record *models.WorkRecord) (uint64, error)
	Get(ctx context.Context, id uint64) (*models.WorkRecord, error)
	Verify(ctx context.Context, id uint64, verifier string, at time.Time) (*models.WorkRecord, error)
	Total(ctx context.Context) (uint64, error)
}

// Authorizer decides whether a subject may verify records.
type Authorizer interface {
	IsVerifier(ctx context.Context, subject string) (bool, error)
}

type Option func(*Service)

// Service enforces the record lifecycle: records enter unverified, ids are
// issued sequentially from zero, and verification is a one-way transition.
type Service struct {
	store      Store
	authorizer Authorizer
	auditor    *audit.Publisher
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
	logger     *slog.Logger
}

func NewService(store Store, authorizer Authorizer, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:      store,
		authorizer: authorizer,
		auditor:    auditor,
		logger:     logger,
		tracer:     tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used to instrument registry operations.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// AddRecord validates and stores a new unverified work record owned by the
// authenticated subject, returning the assigned id.
func (s *Service) AddRecord(ctx context.Context, owner string, req *models.AddRecordRequest) (id uint64, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAddRecord)
	defer func() { span.End(err) }()

	if owner == "" {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return 0, err
	}

	record := &models.WorkRecord{
		Owner:        owner,
		EmployerName: req.EmployerName,
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CreatedAt:    time.Now().UTC(),
	}
	id, err = s.store.Add(ctx, record)
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to save record")
	}
	span.SetAttributes(tracer.Uint64(tracer.AttrRecordID, id))

	s.emitAudit(ctx, audit.Event{
		Action:   audit.ActionRecordAdded,
		RecordID: id,
		Subject:  owner,
		Detail:   record.EmployerName,
	})
	s.incrementRecordsCreated()
	return id, nil
}

// VerifyRecord marks the record as verified by the given subject. The caller
// must hold the verifier capability; a record can only be verified once.
func (s *Service) VerifyRecord(ctx context.Context, id uint64, subject string) (record *models.WorkRecord, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyRecord, tracer.Uint64(tracer.AttrRecordID, id))
	defer func() { span.End(err) }()

	if subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}

	allowed, err := s.authorizer.IsVerifier(ctx, subject)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to check verifier capability")
	}
	if !allowed {
		s.emitAudit(ctx, audit.Event{
			Action:   audit.ActionVerificationDenied,
			RecordID: id,
			Subject:  subject,
		})
		s.incrementVerifyRejected("unauthorized")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "caller is not an authorized verifier")
	}

	record, err = s.store.Verify(ctx, id, subject, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.incrementVerifyRejected("not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		case errors.Is(err, sentinel.ErrAlreadyVerified):
			s.incrementVerifyRejected("already_verified")
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyVerified, "record is already verified")
		default:
			return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to verify record")
		}
	}
	span.SetAttributes(tracer.Bool(tracer.AttrVerified, true), tracer.String(tracer.AttrSubject, subject))

	s.emitAudit(ctx, audit.Event{
		Action:   audit.ActionRecordVerified,
		RecordID: id,
		Subject:  subject,
	})
	s.incrementRecordsVerified()
	return record, nil
}

// GetRecord returns the record with the given id.
func (s *Service) GetRecord(ctx context.Context, id uint64) (record *models.WorkRecord, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGetRecord, tracer.Uint64(tracer.AttrRecordID, id))
	defer func() { span.End(err) }()

	record, err = s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incrementRecordLookups("miss")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to load record")
	}
	span.SetAttributes(tracer.Bool(tracer.AttrVerified, record.Verified))
	s.incrementRecordLookups("hit")
	return record, nil
}

// TotalRecords returns the number of records ever created. Because ids are
// issued sequentially from zero this is also the next id to be assigned.
func (s *Service) TotalRecords(ctx context.Context) (total uint64, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTotalRecords)
	defer func() { span.End(err) }()

	total, err = s.store.Total(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "failed to count records")
	}
	return total, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"record_id", event.RecordID,
		)
	}
}

func (s *Service) incrementRecordsCreated() {
	if s.metrics != nil {
		s.metrics.IncrementRecordsCreated()
	}
}

func (s *Service) incrementRecordsVerified() {
	if s.metrics != nil {
		s.metrics.IncrementRecordsVerified()
	}
}

func (s *Service) incrementVerifyRejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementVerifyRejected(reason)
	}
}

func (s *Service) incrementRecordLookups(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementRecordLookups(outcome)
	}
}

// compile-time checks that the concrete store and authorizer satisfy the ports
var (
	_ Store      = (store.Store)(nil)
	_ Authorizer = (authz.Authorizer)(nil)
)
