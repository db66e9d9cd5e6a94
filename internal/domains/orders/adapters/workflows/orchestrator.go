package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ordersapp "github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/validation"
	orderactivities "github.com/name-hansel/kore-ai-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/name-hansel/kore-ai-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that persists an order and waits for its projection.
// Payloads are validated before the workflow starts so malformed quantities never reach the data converter.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if problems := validation.ValidateCreate(input.OrderInput); len(problems) > 0 {
		return nil, &ordersapp.ValidationError{Problems: problems}
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID, err := buildOrderPlacementWorkflowID(input, traceComponent)
	if err != nil {
		return nil, err
	}
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var projection ordertypes.OrderProjection
			if err := existingRun.Get(ctx, &projection); err != nil {
				return nil, orderactivities.FromApplicationError(err)
			}
			return &projection, nil
		}
		return nil, err
	}
	var projection ordertypes.OrderProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, orderactivities.FromApplicationError(err)
	}
	return &projection, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.AddOrder(ctx, input)
}

// The payload fingerprint is part of an idempotent workflow ID so a reused key with a different body
// reaches the service and is rejected there instead of replaying the first result.
func buildOrderPlacementWorkflowID(input ordertypes.AddOrderInput, traceComponent string) (string, error) {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		fingerprint, err := ordersapp.FingerprintAddOrder(input)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("order-placement-idem-%s-%s", hashIdempotencyKey(key), fingerprint[:16]), nil
	}
	return fmt.Sprintf("order-placement-%s-%s", uuid.NewString(), traceComponent), nil
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
