// Package observability decorates the custody service with tracing, logging,
// and metrics.
package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

const tracerName = "github.com/metalsdesk/admin-api/internal/domains/custody/adapters/observability/service"

// Service wraps a custody application port with instrumentation.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create the service counters.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) CreateService(ctx context.Context, req domain.CreateRequest, actor string) (*domain.CustodyService, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateService",
		attribute.String("custody.custodian_id", req.CustodianID),
		attribute.String("custody.actor", actor),
	)
	defer span.End()

	s.logInfo(ctx, "creating custody service", slog.String("custodian_id", req.CustodianID), slog.String("actor", actor))
	result, err := s.inner.CreateService(ctx, req, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create custody service", slog.String("custodian_id", req.CustodianID))
	}
	s.metrics.recordCreated(ctx, result.PaymentFrequency)
	s.logInfo(ctx, "custody service created", slog.String("service_id", result.ID), slog.String("name", result.Name))
	return result, nil
}

func (s *Service) UpdateService(ctx context.Context, id string, req domain.UpdateRequest, actor string) (*domain.CustodyService, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateService",
		attribute.String("custody.service_id", id),
		attribute.String("custody.actor", actor),
	)
	defer span.End()

	s.logInfo(ctx, "updating custody service", slog.String("service_id", id), slog.String("actor", actor))
	result, err := s.inner.UpdateService(ctx, id, req, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update custody service", slog.String("service_id", id))
	}
	s.metrics.recordUpdated(ctx, result.PaymentFrequency)
	s.logInfo(ctx, "custody service updated", slog.String("service_id", result.ID))
	return result, nil
}

func (s *Service) DeleteService(ctx context.Context, id string, actor string) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteService",
		attribute.String("custody.service_id", id),
		attribute.String("custody.actor", actor),
	)
	defer span.End()

	s.logInfo(ctx, "deleting custody service", slog.String("service_id", id), slog.String("actor", actor))
	if err := s.inner.DeleteService(ctx, id, actor); err != nil {
		return s.handleError(ctx, span, err, "failed to delete custody service", slog.String("service_id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "custody service deleted", slog.String("service_id", id))
	return nil
}

func (s *Service) ListServices(ctx context.Context, filter ports.ListFilter, page pagination.PageRequest) (pagination.Page[*domain.CustodyService], error) {
	ctx, span := s.startSpan(ctx, "Service.ListServices")
	defer span.End()

	result, err := s.inner.ListServices(ctx, filter, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list custody services")
	}
	span.SetAttributes(
		attribute.Int("custody.result.count", len(result.Items)),
		attribute.Int64("custody.result.total", result.Total),
	)
	return result, nil
}

func (s *Service) GetService(ctx context.Context, id string) (*domain.CustodyService, error) {
	ctx, span := s.startSpan(ctx, "Service.GetService", attribute.String("custody.service_id", id))
	defer span.End()

	result, err := s.inner.GetService(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load custody service", slog.String("service_id", id))
	}
	return result, nil
}

func (s *Service) ListByCustodian(ctx context.Context, custodianID string) ([]*domain.CustodyService, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByCustodian", attribute.String("custody.custodian_id", custodianID))
	defer span.End()

	result, err := s.inner.ListByCustodian(ctx, custodianID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list custodian services", slog.String("custodian_id", custodianID))
	}
	span.SetAttributes(attribute.Int("custody.result.count", len(result)))
	return result, nil
}

func (s *Service) GetDefaultService(ctx context.Context) (*domain.CustodyService, error) {
	ctx, span := s.startSpan(ctx, "Service.GetDefaultService")
	defer span.End()

	result, err := s.inner.GetDefaultService(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load default custody service")
	}
	return result, nil
}

func (s *Service) GroupByCustodian(ctx context.Context) ([]ports.CustodianGroup, error) {
	ctx, span := s.startSpan(ctx, "Service.GroupByCustodian")
	defer span.End()

	result, err := s.inner.GroupByCustodian(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to group custody services")
	}
	span.SetAttributes(attribute.Int("custody.result.groups", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("custody.service.created", metric.WithDescription("Number of custody services created"))
	updated, _ := m.Int64Counter("custody.service.updated", metric.WithDescription("Number of custody services updated"))
	deleted, _ := m.Int64Counter("custody.service.deleted", metric.WithDescription("Number of custody services deleted"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context, freq domain.PaymentFrequency) {
	addCounter(ctx, m.created, 1, attribute.String("custody.payment_frequency", string(freq)))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, freq domain.PaymentFrequency) {
	addCounter(ctx, m.updated, 1, attribute.String("custody.payment_frequency", string(freq)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.deleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
