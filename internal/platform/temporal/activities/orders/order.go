package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	ordersports "github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
)

// PersistOrderActivityName persists a new order through the application service.
const PersistOrderActivityName = "orders.activities.PersistOrder"

// Application error types carried across the workflow boundary.
const (
	ErrTypeValidationFailed    = "orders.ValidationFailed"
	ErrTypeInvalidInput        = "orders.InvalidInput"
	ErrTypeIdempotencyConflict = "orders.IdempotencyConflict"
	ErrTypeNonRetryable        = "orders.NonRetryable"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PersistOrder stores a new order and returns its projection. Failures that would repeat on retry are
// returned as non-retryable application errors.
func (a *Activities) PersistOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized", "customerId", input.CustomerID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "customerId", input.CustomerID)
	projection, err := a.service.AddOrder(ctx, input)
	if err != nil {
		logger.Error("PersistOrder activity failed", "customerId", input.CustomerID, "error", err)
		return nil, ToApplicationError(err)
	}
	logger.Info("PersistOrder activity completed", "orderId", projection.Entity.ID)
	return projection, nil
}

// ToApplicationError encodes service errors so the orchestrator can restore them after the workflow.
func ToApplicationError(err error) error {
	var verr *ordersapp.ValidationError
	switch {
	case errors.As(err, &verr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeValidationFailed, err, verr.Problems)
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, err)
	case ordersapp.IsNonRetryable(err):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNonRetryable, err)
	}
	return err
}

// FromApplicationError restores the sentinel errors encoded by ToApplicationError.
func FromApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeValidationFailed:
		var problems []string
		if appErr.HasDetails() {
			_ = appErr.Details(&problems)
		}
		return &ordersapp.ValidationError{Problems: problems}
	case ErrTypeInvalidInput:
		return errors.Join(ordersapp.ErrInvalidInput, err)
	case ErrTypeIdempotencyConflict:
		return errors.Join(ordersports.ErrIdempotencyConflict, err)
	}
	return err
}
