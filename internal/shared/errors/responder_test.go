package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/orders/x", nil)
	handler(c)
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	return w, problem
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	errMissing := stderrors.New("missing")
	responder := NewChainedResponder("",
		func(err error) (ProblemDetail, bool) { return ProblemDetail{}, false },
		func(err error) (ProblemDetail, bool) {
			if stderrors.Is(err, errMissing) {
				return ErrNotFound.WithDetail("Order not found"), true
			}
			return ProblemDetail{}, false
		},
	)

	w, problem := respond(t, func(c *gin.Context) { responder.RespondError(c, errMissing) })

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	require.Equal(t, "Order not found", problem.Detail)
	require.Equal(t, "/api/orders/x", problem.Instance)
}

func TestResponder_UnknownErrorsAreNotEchoed(t *testing.T) {
	responder := NewChainedResponder("")

	w, problem := respond(t, func(c *gin.Context) { responder.RespondError(c, stderrors.New("pq: connection refused")) })

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "an unexpected error occurred", problem.Detail)
}

func TestResponder_BaseURIPrefixesType(t *testing.T) {
	responder := NewResponder("https://errors.example.com")

	_, problem := respond(t, func(c *gin.Context) { responder.BadRequest(c, "bad") })

	require.Equal(t, "https://errors.example.com"+TypeBadRequest, problem.Type)
}

func TestNewValidationProblem(t *testing.T) {
	single := NewValidationProblem([]string{"Invalid quantity"})
	require.Equal(t, "Invalid quantity", single.Detail)
	require.Equal(t, []string{"Invalid quantity"}, single.Extensions["errors"])

	many := NewValidationProblem([]string{"Address required", "City required"})
	require.Equal(t, "request failed validation", many.Detail)
	require.Equal(t, http.StatusBadRequest, many.Status)
}
