package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
)

// DefaultCapacitySchedule refreshes the snapshot every five minutes.
const DefaultCapacitySchedule = "@every 5m"

// CapacitySource reports the capacity of the current day.
type CapacitySource interface {
	Today(ctx context.Context, now time.Time) (*ordertypes.Capacity, error)
}

// CapacitySnapshotJob periodically records today's remaining capacity as gauges.
type CapacitySnapshotJob struct {
	source   CapacitySource
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last *ordertypes.Capacity
}

// NewCapacitySnapshotJob builds the job and registers its gauges on meter. A nil meter disables metrics.
func NewCapacitySnapshotJob(source CapacitySource, schedule string, meter metric.Meter, logger *slog.Logger) (*CapacitySnapshotJob, error) {
	if schedule == "" {
		schedule = DefaultCapacitySchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	j := &CapacitySnapshotJob{
		source:   source,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "capacity_snapshot_job"),
		now:      time.Now,
	}
	if err := j.registerGauges(meter); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *CapacitySnapshotJob) registerGauges(meter metric.Meter) error {
	if meter == nil {
		meter = noopmetric.NewMeterProvider().Meter("jobs")
	}
	milkLeft, err := meter.Int64ObservableGauge("orders.capacity.milk_left_ml",
		metric.WithDescription("Milk left for today as of the last snapshot"), metric.WithUnit("ml"))
	if err != nil {
		return err
	}
	ordered, err := meter.Int64ObservableGauge("orders.capacity.ordered_ml",
		metric.WithDescription("Milk ordered for today as of the last snapshot"), metric.WithUnit("ml"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		snapshot := j.Last()
		if snapshot == nil {
			return nil
		}
		attrs := metric.WithAttributes(attribute.String("date", snapshot.Date.String()))
		o.ObserveInt64(milkLeft, snapshot.MilkLeft, attrs)
		o.ObserveInt64(ordered, snapshot.Ordered, attrs)
		return nil
	}, milkLeft, ordered)
	return err
}

// RunOnce takes a single snapshot.
func (j *CapacitySnapshotJob) RunOnce(ctx context.Context) error {
	capacity, err := j.source.Today(ctx, j.now())
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.last = capacity
	j.mu.Unlock()
	if capacity.MilkLeft < 0 {
		j.logger.WarnContext(ctx, "Daily capacity exceeded", "date", capacity.Date.String(), "milkLeft", capacity.MilkLeft)
	} else {
		j.logger.DebugContext(ctx, "Capacity snapshot taken", "date", capacity.Date.String(), "milkLeft", capacity.MilkLeft)
	}
	return nil
}

// Last returns the most recent snapshot, or nil before the first run.
func (j *CapacitySnapshotJob) Last() *ordertypes.Capacity {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}

// Start takes an initial snapshot and schedules the rest.
func (j *CapacitySnapshotJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Capacity snapshot job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	if err := j.RunOnce(context.Background()); err != nil {
		j.logger.Error("Initial capacity snapshot failed", "error", err)
	}
	j.cron.Start()
	j.logger.Info("Capacity snapshot job started", "schedule", j.schedule)
	return nil
}

// Stop halts scheduling and waits for a running snapshot to finish.
func (j *CapacitySnapshotJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Capacity snapshot job stopped")
}
