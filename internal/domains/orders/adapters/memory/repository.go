package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory implementation used for development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*storedOrder
	now    func() time.Time
	newID  func() string
}

type storedOrder struct {
	order    domain.Order
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		orders: map[string]*storedOrder{},
		now:    time.Now,
		newID:  ports.NewOrderID,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// WithIDGenerator overrides how new order ids are minted, for seeding known ids.
func (r *Repository) WithIDGenerator(newID func() string) {
	if newID != nil {
		r.mu.Lock()
		r.newID = newID
		r.mu.Unlock()
	}
}

// Create stores a new order under a fresh id.
func (r *Repository) Create(_ context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("cannot create nil order")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now().UTC()
	stored := &storedOrder{
		order:    *order,
		metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp, Version: 1},
	}
	stored.order.ID = r.newID()
	r.orders[stored.order.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches an order if present.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Order], error) {
	key, err := ports.ParseOrderID(id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.orders[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

// List returns matching orders, newest orderedAt first.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var set map[domain.Status]struct{}
	if len(filter.Statuses) > 0 {
		set = make(map[domain.Status]struct{}, len(filter.Statuses))
		for _, s := range filter.Statuses {
			set[s] = struct{}{}
		}
	}
	list := make([]*projection.Projection[*domain.Order], 0, len(r.orders))
	for _, entry := range r.orders {
		if set != nil {
			if _, ok := set[entry.order.Status]; !ok {
				continue
			}
		}
		list = append(list, projectionCopy(entry))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Entity, list[j].Entity
		if !a.OrderedAt.Equal(b.OrderedAt) {
			return a.OrderedAt.After(b.OrderedAt)
		}
		return a.ID < b.ID
	})
	return list, nil
}

// Update replaces a stored order, honoring expectedVersion when it is non-zero.
func (r *Repository) Update(_ context.Context, order *domain.Order, expectedVersion int64) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("cannot update nil order")
	}
	key, err := ports.ParseOrderID(order.ID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.orders[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if expectedVersion != 0 && entry.metadata.Version != expectedVersion {
		return nil, ports.ErrVersionConflict
	}
	entry.order = *order
	entry.order.ID = key
	entry.metadata.UpdatedAt = r.now().UTC()
	entry.metadata.Version++
	return projectionCopy(entry), nil
}

// Delete removes an order.
func (r *Repository) Delete(_ context.Context, id string) error {
	key, err := ports.ParseOrderID(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[key]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, key)
	return nil
}

// SumQuantity totals quantity for orders placed in [from, to). The total saturates at math.MaxInt64.
func (r *Repository) SumQuantity(_ context.Context, from, to time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, entry := range r.orders {
		at := entry.order.OrderedAt
		if !at.Before(from) && at.Before(to) {
			if entry.order.Quantity > math.MaxInt64-total {
				return math.MaxInt64, nil
			}
			total += entry.order.Quantity
		}
	}
	return total, nil
}

func projectionCopy(entry *storedOrder) *projection.Projection[*domain.Order] {
	order := entry.order
	return &projection.Projection[*domain.Order]{
		Entity:   &order,
		Metadata: entry.metadata,
	}
}
