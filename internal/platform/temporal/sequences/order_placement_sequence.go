package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	orderactivities "github.com/name-hansel/kore-ai-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the activities needed to persist a new order.
func RunOrderPlacementSequence(ctx workflow.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "customerId", input.CustomerID)
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var projection ordertypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order placement sequence failed", "customerId", input.CustomerID, "error", err)
		return nil, err
	}
	if projection.Entity != nil {
		logger.Info("order placement sequence persisted", "orderId", projection.Entity.ID)
	}
	return &projection, nil
}
