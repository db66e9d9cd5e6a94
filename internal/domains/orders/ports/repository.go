package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/shared/projection"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidIdentifier = errors.New("invalid order id")
	ErrVersionConflict   = errors.New("order version conflict")
	ErrStorage           = errors.New("order storage failure")
)

// ListFilter narrows List results. A zero filter returns every order.
type ListFilter struct {
	Statuses []domain.Status
}

// Repository persists orders and answers the capacity aggregate.
type Repository interface {
	// Create assigns the id, timestamps and version 1.
	Create(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error)
	// List returns matching orders, newest orderedAt first.
	List(ctx context.Context, filter ListFilter) ([]*projection.Projection[*domain.Order], error)
	// Update overwrites the stored order. A non-zero expectedVersion must match the stored version or
	// ErrVersionConflict is returned.
	Update(ctx context.Context, order *domain.Order, expectedVersion int64) (*projection.Projection[*domain.Order], error)
	Delete(ctx context.Context, id string) error
	// SumQuantity totals quantity for orders with from <= orderedAt < to.
	SumQuantity(ctx context.Context, from, to time.Time) (int64, error)
}

// ParseOrderID normalizes an order id, rejecting anything that is not a UUID.
func ParseOrderID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id.String(), nil
}

// NewOrderID returns a fresh random order id.
func NewOrderID() string {
	return uuid.NewString()
}
