package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

const tracerName = "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
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

func (s *Service) Create(ctx context.Context, input orderports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int64("order.user_id", input.Actor.UserID),
		attribute.Int("order.item_count", len(input.Items)),
	))
	defer span.End()
	s.logInfo(ctx, "placing order", slog.Int64("userId", input.Actor.UserID), slog.Int("items", len(input.Items)))
	order, err := s.inner.Create(ctx, input)
	if err != nil {
		var insufficient *catalogports.InsufficientStockError
		if errors.As(err, &insufficient) {
			s.metrics.recordInsufficientStock(ctx)
		}
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("userId", input.Actor.UserID))
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	if input.ClientTotalCents > 0 && input.ClientTotalCents != order.TotalCents {
		s.logWarn(ctx, "client total mismatch",
			slog.Int64("orderId", order.ID),
			slog.Int64("clientTotalCents", input.ClientTotalCents),
			slog.Int64("totalCents", order.TotalCents))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order placed",
		slog.Int64("orderId", order.ID),
		slog.Int64("userId", order.UserID),
		slog.Int64("totalCents", order.TotalCents))
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, actor orderports.Actor, orderID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	return s.inner.GetByID(ctx, actor, orderID)
}

func (s *Service) ListByOwner(ctx context.Context, actor orderports.Actor) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListByOwner", trace.WithAttributes(attribute.Int64("order.user_id", actor.UserID)))
	defer span.End()
	return s.inner.ListByOwner(ctx, actor)
}

func (s *Service) Cancel(ctx context.Context, actor orderports.Actor, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	if err := s.inner.Cancel(ctx, actor, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("orderId", orderID))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("orderId", orderID))
	return nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAll")
	defer span.End()
	return s.inner.ListAll(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.status", string(status)),
	))
	defer span.End()
	order, err := s.inner.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status",
			slog.Int64("orderId", orderID), slog.String("status", string(status)))
	}
	s.metrics.recordStatusChanged(ctx)
	s.logInfo(ctx, "order status updated", slog.Int64("orderId", orderID), slog.String("status", string(order.Status)))
	return order, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	ordersCancelled   metric.Int64Counter
	statusChanges     metric.Int64Counter
	insufficientStock metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders placed"))
	cancelled, _ := m.Int64Counter("orders.service.cancelled", metric.WithDescription("Number of orders cancelled"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of admin status transitions"))
	insufficient, _ := m.Int64Counter("orders.service.insufficient_stock", metric.WithDescription("Number of checkouts rejected for insufficient stock"))
	return serviceMetrics{
		ordersCreated:     created,
		ordersCancelled:   cancelled,
		statusChanges:     statusChanges,
		insufficientStock: insufficient,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordInsufficientStock(ctx context.Context) {
	if m.insufficientStock != nil {
		m.insufficientStock.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ orderports.Service = (*Service)(nil)
