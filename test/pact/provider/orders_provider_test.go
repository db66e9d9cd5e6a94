//go:build pact
// +build pact

package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	pacttest "github.com/name-hansel/kore-ai-api/test/pact"

	orderserver "github.com/name-hansel/kore-ai-api/go"
	ordersmemory "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/name-hansel/kore-ai-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/name-hansel/kore-ai-api/internal/domains/orders/application"
	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	ordersports "github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

var providerClock = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func TestOrdersProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	app := newContractProviderApp(t)
	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID, 500)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateCapacityBooked: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID, pacttest.BookedOnCapacityDay)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo    *ordersmemory.Repository
	service ordersports.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := ordersmemory.NewRepository()
	repo.WithClock(func() time.Time { return providerClock })
	core := ordersapp.NewService(repo, ordersapp.Config{
		MaxDailyCapacity: pacttest.MaxDailyCapacity,
		Location:         time.UTC,
	}, ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()), ordersapp.WithClock(func() time.Time { return providerClock }))
	service := ordersobs.New(core)

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI: orderserver.NewOrderAPI(service, ordersworkflows.NewInlineOrderWorkflows(service)),
	}
	router := orderserver.NewRouter(handlers)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{repo: repo, service: service, server: server}
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	orders, err := a.repo.List(context.Background(), ordersports.ListFilter{})
	require.NoError(t, err)
	for _, projection := range orders {
		_ = a.repo.Delete(context.Background(), projection.Entity.ID)
	}
	a.repo.WithIDGenerator(func() string { return pacttest.ExistingOrderID })
}

func (a *contractProviderApp) seedOrder(t testing.TB, id string, quantity int64) {
	t.Helper()
	a.repo.WithIDGenerator(func() string { return id })
	_, err := a.service.AddOrder(context.Background(), ordertypes.AddOrderInput{OrderInput: ordertypes.OrderInput{
		CustomerID: "cust-101",
		DeliveryAddress: &ordertypes.DeliveryAddressInput{
			Address: "12 MG Road",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
		},
		Quantity: json.Number(strconv.FormatInt(quantity, 10)),
	}})
	require.NoError(t, err)
}
