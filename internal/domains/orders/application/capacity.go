package application

import (
	"context"
	"time"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
)

// CapacityCalculator turns booked quantity into remaining daily capacity.
type CapacityCalculator struct {
	repo        ports.Repository
	maxCapacity int64
	location    *time.Location
}

// NewCapacityCalculator builds a calculator whose day boundaries are computed in loc (UTC when nil).
func NewCapacityCalculator(repo ports.Repository, maxCapacity int64, loc *time.Location) *CapacityCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &CapacityCalculator{repo: repo, maxCapacity: maxCapacity, location: loc}
}

// Remaining sums the quantity ordered on day and subtracts it from the daily maximum. The result is
// not clamped; a negative MilkLeft means the day is overbooked.
func (c *CapacityCalculator) Remaining(ctx context.Context, day domain.Day) (*ordertypes.Capacity, error) {
	from, to := day.Window(c.location)
	ordered, err := c.repo.SumQuantity(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &ordertypes.Capacity{
		Date:        day,
		MaxCapacity: c.maxCapacity,
		Ordered:     ordered,
		MilkLeft:    c.maxCapacity - ordered,
	}, nil
}

// Today reports the capacity of the current day in the calculator's location.
func (c *CapacityCalculator) Today(ctx context.Context, now time.Time) (*ordertypes.Capacity, error) {
	return c.Remaining(ctx, domain.DayOf(now, c.location))
}

// Location returns the timezone used for day boundaries.
func (c *CapacityCalculator) Location() *time.Location {
	return c.location
}
