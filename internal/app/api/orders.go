package api

import (
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	ordersevents "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/events"
	ordersmemory "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	ordersports "github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/platform/messaging"
	"github.com/name-hansel/kore-ai-api/internal/platform/migrations"
	platformobservability "github.com/name-hansel/kore-ai-api/internal/platform/observability"
)

// Orders holds the wired orders bounded context.
type Orders struct {
	// Core is the undecorated service; background jobs read capacity through it.
	Core *ordersapp.Service
	// Service is Core decorated with tracing, logging and metrics.
	Service ordersports.Service

	publisher *ordersevents.KafkaPublisher
	producer  *messaging.Producer
}

// BuildOrders wires repositories, the event publisher and the instrumented service. A nil db selects
// the in-memory adapters.
func BuildOrders(cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (*Orders, error) {
	logger := effectiveLogger(instruments)

	var (
		repo        ordersports.Repository
		idempotency ordersports.IdempotencyStore
	)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return nil, fmt.Errorf("failed to migrate orders schema: %w", err)
		}
		repo = orderspostgres.NewRepository(db)
		idempotency = orderspostgres.NewIdempotencyStore(db)
		logger.Info("order repository configured with postgres")
	} else {
		repo = ordersmemory.NewRepository()
		idempotency = ordersmemory.NewIdempotencyStore()
		logger.Info("order repository configured in memory")
	}

	orders := &Orders{}
	opts := []ordersapp.Option{ordersapp.WithIdempotencyStore(idempotency)}
	if len(cfg.KafkaBrokers) > 0 {
		orders.producer = messaging.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		orders.publisher = ordersevents.NewKafkaPublisher(orders.producer, logger)
		opts = append(opts, ordersapp.WithEventPublisher(orders.publisher))
		logger.Info("order events enabled", slog.String("topic", cfg.OrderEventsTopic))
	} else {
		logger.Info("KAFKA_BROKERS not set, order events disabled")
	}

	orders.Core = ordersapp.NewService(repo, ordersapp.Config{
		MaxDailyCapacity:   cfg.MaxDailyCapacity,
		Location:           cfg.CapacityLocation,
		EnforceStatusOrder: cfg.EnforceStatusOrder,
	}, opts...)
	orders.Service = ordersobs.New(
		orders.Core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return orders, nil
}

// Close drains queued events and closes the Kafka writer.
func (o *Orders) Close() error {
	if o == nil {
		return nil
	}
	o.publisher.Wait()
	return o.producer.Close()
}

// DialTemporal connects a traced Temporal client unless Temporal is disabled.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(component),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// ObservabilitySettings derives exporter settings for a process.
func ObservabilitySettings(cfg Config, serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
