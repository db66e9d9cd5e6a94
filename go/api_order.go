package orderserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	ordersports "github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/validation"
	apierrors "github.com/name-hansel/kore-ai-api/internal/shared/errors"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerIfMatch        = "If-Match"
	headerETag           = "ETag"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewOrderAPI creates an OrderAPI backed by the provided service. workflows may be nil.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{
		service:   service,
		workflows: workflows,
		responder: apierrors.NewChainedResponder("", mapOrderError),
	}
}

// Get /api/orders
// Lists orders, optionally filtered by ?status=
func (api *OrderAPI) ListOrders(c *gin.Context) {
	result, err := api.service.ListOrders(c.Request.Context(), ordertypes.ListOrdersInput{Statuses: c.QueryArray("status")})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjectionList(result))
}

// Post /api/orders
// Places a new order
func (api *OrderAPI) AddOrder(c *gin.Context) {
	var payload orderhttpmapper.MutationOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must be a JSON order")
		return
	}
	input := ordertypes.AddOrderInput{
		OrderInput:     orderhttpmapper.ToOrderInput(payload),
		IdempotencyKey: c.GetHeader(headerIdempotencyKey),
	}
	saved, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.respondOrder(c, http.StatusCreated, saved)
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.AddOrder(ctx, input)
}

// Get /api/orders/:orderId
// Finds an order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{ID: c.Param("orderId")})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.respondOrder(c, http.StatusOK, order)
}

// Put /api/orders/:orderId
// Replaces delivery address, quantity and optionally status
func (api *OrderAPI) EditOrder(c *gin.Context) {
	ifVersion, ok := api.ifMatch(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.MutationOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must be a JSON order")
		return
	}
	input := ordertypes.EditOrderInput{
		ID:         c.Param("orderId"),
		OrderInput: orderhttpmapper.ToOrderInput(payload),
		IfVersion:  ifVersion,
	}
	updated, err := api.service.EditOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.respondOrder(c, http.StatusOK, updated)
}

// Patch /api/orders/:orderId/status
// Moves an order to another status
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	ifVersion, ok := api.ifMatch(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must be a JSON object with a status")
		return
	}
	input := ordertypes.UpdateStatusInput{ID: c.Param("orderId"), Status: payload.Status, IfVersion: ifVersion}
	updated, err := api.service.UpdateStatus(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	api.respondOrder(c, http.StatusOK, updated)
}

// Delete /api/orders/:orderId
// Deletes an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	if err := api.service.DeleteOrder(c.Request.Context(), ordertypes.OrderIdentifier{ID: c.Param("orderId")}); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/capacity/:date
// Returns remaining milk capacity for a dd-mm-yyyy date
func (api *OrderAPI) CheckCapacity(c *gin.Context) {
	capacity, err := api.service.CheckCapacity(c.Request.Context(), ordertypes.CapacityQuery{Date: c.Param("date")})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromCapacity(capacity))
}

func (api *OrderAPI) respondOrder(c *gin.Context, status int, order *ordertypes.OrderProjection) {
	if order != nil {
		c.Header(headerETag, orderhttpmapper.ETag(order.Metadata.Version))
	}
	c.JSON(status, orderhttpmapper.FromProjection(order))
}

func (api *OrderAPI) ifMatch(c *gin.Context) (int64, bool) {
	version, ok := orderhttpmapper.ParseIfMatch(c.GetHeader(headerIfMatch))
	if !ok {
		api.responder.BadRequest(c, "If-Match must carry an order version")
		return 0, false
	}
	return version, true
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var verr *ordersapp.ValidationError
	switch {
	case errors.As(err, &verr):
		return apierrors.NewValidationProblem(verr.Problems), true
	case errors.Is(err, validation.ErrDateRequired):
		return apierrors.NewValidationProblem([]string{validation.ErrDateRequired.Error()}), true
	case errors.Is(err, ordersapp.ErrInvalidDate):
		return apierrors.NewValidationProblem([]string{validation.ErrInvalidDate.Error()}), true
	case errors.Is(err, ordersports.ErrInvalidIdentifier):
		return apierrors.ErrBadRequest.WithDetail("Invalid order ID"), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Order not found"), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrVersionConflict):
		return apierrors.ErrConflict.WithDetail("order was modified by another request"), true
	case errors.Is(err, domain.ErrInvalidTransition):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("Idempotency-Key was already used with a different payload"), true
	}
	return apierrors.ProblemDetail{}, false
}
