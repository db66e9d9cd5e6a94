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

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
)

const tracerName = "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders port with tracing, logging, and metrics.
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

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
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

// AddOrder places a new order with instrumentation.
func (s *Service) AddOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.AddOrder",
		attribute.String("order.customer_id", input.CustomerID),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	)
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("customer.id", input.CustomerID))
	result, err := s.inner.AddOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("customer.id", input.CustomerID))
	}
	if result != nil && result.Entity != nil {
		span.SetAttributes(attribute.String("order.id", result.Entity.ID))
		s.metrics.recordPlaced(ctx, result.Entity)
		s.logInfo(ctx, "order placed",
			slog.String("order.id", result.Entity.ID),
			slog.Int64("order.quantity_ml", result.Entity.Quantity),
			slog.String("status", string(result.Entity.Status)),
		)
	}
	return result, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", input.ID))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID))
	}
	return result, nil
}

// ListOrders returns every order matching the filter.
func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders", attribute.StringSlice("order.statuses.requested", input.Statuses))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Any("statuses", input.Statuses))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	s.logInfo(ctx, "listed orders", slog.Int("count", len(result)))
	return result, nil
}

// EditOrder replaces delivery details of an order.
func (s *Service) EditOrder(ctx context.Context, input ordertypes.EditOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.EditOrder",
		attribute.String("order.id", input.ID),
		attribute.Int64("order.if_version", input.IfVersion),
	)
	defer span.End()

	s.logInfo(ctx, "editing order", slog.String("order.id", input.ID))
	result, err := s.inner.EditOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to edit order", slog.String("order.id", input.ID))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordUpdated(ctx, result.Entity.Status)
		s.logInfo(ctx, "order edited",
			slog.String("order.id", result.Entity.ID),
			slog.Int64("version", result.Metadata.Version),
		)
	}
	return result, nil
}

// UpdateStatus moves an order to another status.
func (s *Service) UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateStatus",
		attribute.String("order.id", input.ID),
		attribute.String("order.status.requested", input.Status),
	)
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", input.ID), slog.String("status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.ID))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordUpdated(ctx, result.Entity.Status)
		s.logInfo(ctx, "order status updated", slog.String("order.id", result.Entity.ID), slog.String("status", string(result.Entity.Status)))
	}
	return result, nil
}

// DeleteOrder removes an order.
func (s *Service) DeleteOrder(ctx context.Context, input ordertypes.OrderIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrder", attribute.String("order.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", input.ID))
	if err := s.inner.DeleteOrder(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", input.ID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", input.ID))
	return nil
}

// CheckCapacity reports remaining capacity for a date.
func (s *Service) CheckCapacity(ctx context.Context, input ordertypes.CapacityQuery) (*ordertypes.Capacity, error) {
	ctx, span := s.startSpan(ctx, "Service.CheckCapacity", attribute.String("capacity.date", input.Date))
	defer span.End()

	result, err := s.inner.CheckCapacity(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to check capacity", slog.String("date", input.Date))
	}
	span.SetAttributes(
		attribute.Int64("capacity.ordered_ml", result.Ordered),
		attribute.Int64("capacity.milk_left_ml", result.MilkLeft),
	)
	if result.MilkLeft < 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "capacity overbooked",
			slog.String("date", result.Date.String()),
			slog.Int64("milk_left_ml", result.MilkLeft),
		)
	}
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

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	milkOrdered   metric.Int64Counter
	ordersUpdated metric.Int64Counter
	ordersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	milkOrdered, _ := m.Int64Counter("orders.service.ordered_ml", metric.WithDescription("Milk booked by placed orders"), metric.WithUnit("ml"))
	ordersUpdated, _ := m.Int64Counter("orders.service.updated", metric.WithDescription("Number of order updates"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{
		ordersPlaced:  ordersPlaced,
		milkOrdered:   milkOrdered,
		ordersUpdated: ordersUpdated,
		ordersDeleted: ordersDeleted,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *domain.Order) {
	addCounter(ctx, m.ordersPlaced, 1, attribute.String("order.state", order.DeliveryAddress.State))
	addCounter(ctx, m.milkOrdered, order.Quantity, attribute.String("order.state", order.DeliveryAddress.State))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.ordersUpdated, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
