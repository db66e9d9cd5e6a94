package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/name-hansel/kore-ai-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router. Middleware is installed before any route is registered.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail("route not found"))
	})
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the API handlers.
type ApiHandleFunctions struct {
	// Routes for the orders and capacity part of the API
	OrderAPI OrderAPI
	// Handler for GET /metrics; nil leaves the route unregistered
	Metrics http.Handler
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	routes := []Route{
		{"ListOrders", http.MethodGet, "/api/orders", handleFunctions.OrderAPI.ListOrders},
		{"AddOrder", http.MethodPost, "/api/orders", handleFunctions.OrderAPI.AddOrder},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", handleFunctions.OrderAPI.GetOrder},
		{"EditOrder", http.MethodPut, "/api/orders/:orderId", handleFunctions.OrderAPI.EditOrder},
		{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:orderId/status", handleFunctions.OrderAPI.UpdateStatus},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:orderId", handleFunctions.OrderAPI.DeleteOrder},
		{"CheckCapacity", http.MethodGet, "/api/capacity/:date", handleFunctions.OrderAPI.CheckCapacity},
	}
	if handleFunctions.Metrics != nil {
		routes = append(routes, Route{"Metrics", http.MethodGet, "/metrics", gin.WrapH(handleFunctions.Metrics)})
	}
	return routes
}
