package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
)

func newOrder(t *testing.T, quantity int64, status domain.Status, orderedAt time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("cust-1", domain.DeliveryAddress{
		Address: "12 MG Road",
		City:    "Pune",
		State:   "Maharashtra",
		Pincode: "411001",
	}, quantity, status, orderedAt)
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAssignsIdentity(t *testing.T) {
	repo := NewRepository()
	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return fixed })

	saved, err := repo.Create(context.Background(), newOrder(t, 500, "", fixed))
	require.NoError(t, err)
	require.NotEmpty(t, saved.Entity.ID)
	require.Equal(t, int64(1), saved.Metadata.Version)
	require.Equal(t, fixed, saved.Metadata.CreatedAt)

	fetched, err := repo.GetByID(context.Background(), saved.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, saved, fetched)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo := NewRepository()
	saved, err := repo.Create(context.Background(), newOrder(t, 500, "", time.Now()))
	require.NoError(t, err)

	saved.Entity.Quantity = 9999
	fetched, err := repo.GetByID(context.Background(), saved.Entity.ID)
	require.NoError(t, err)
	require.Equal(t, int64(500), fetched.Entity.Quantity)
}

func TestRepository_GetByIDDistinguishesMalformedFromMissing(t *testing.T) {
	repo := NewRepository()

	_, err := repo.GetByID(context.Background(), "not-a-valid-id")
	require.ErrorIs(t, err, ports.ErrInvalidIdentifier)

	_, err = repo.GetByID(context.Background(), ports.NewOrderID())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateBumpsVersionAndChecksExpected(t *testing.T) {
	repo := NewRepository()
	saved, err := repo.Create(context.Background(), newOrder(t, 500, "", time.Now()))
	require.NoError(t, err)

	order := saved.Entity
	order.Quantity = 600
	updated, err := repo.Update(context.Background(), order, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), updated.Metadata.Version)
	require.Equal(t, saved.Metadata.CreatedAt, updated.Metadata.CreatedAt)

	_, err = repo.Update(context.Background(), order, 1)
	require.ErrorIs(t, err, ports.ErrVersionConflict)

	last, err := repo.Update(context.Background(), order, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), last.Metadata.Version)
}

func TestRepository_DeleteThenGet(t *testing.T) {
	repo := NewRepository()
	saved, err := repo.Create(context.Background(), newOrder(t, 500, "", time.Now()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), saved.Entity.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), saved.Entity.ID), ports.ErrNotFound)
	_, err = repo.GetByID(context.Background(), saved.Entity.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFiltersAndSortsNewestFirst(t *testing.T) {
	repo := NewRepository()
	base := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	older, err := repo.Create(context.Background(), newOrder(t, 100, domain.StatusPlaced, base))
	require.NoError(t, err)
	newer, err := repo.Create(context.Background(), newOrder(t, 200, domain.StatusPlaced, base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), newOrder(t, 300, domain.StatusDelivered, base.Add(2*time.Hour)))
	require.NoError(t, err)

	all, err := repo.List(context.Background(), ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, domain.StatusDelivered, all[0].Entity.Status)

	placed, err := repo.List(context.Background(), ports.ListFilter{Statuses: []domain.Status{domain.StatusPlaced}})
	require.NoError(t, err)
	require.Len(t, placed, 2)
	require.Equal(t, newer.Entity.ID, placed[0].Entity.ID)
	require.Equal(t, older.Entity.ID, placed[1].Entity.ID)
}

func TestRepository_SumQuantityUsesHalfOpenWindow(t *testing.T) {
	repo := NewRepository()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, o := range []*domain.Order{
		newOrder(t, 500, "", day),
		newOrder(t, 700, "", day.Add(23*time.Hour+59*time.Minute)),
		newOrder(t, 900, "", day.Add(24*time.Hour)),
		newOrder(t, 1100, "", day.Add(-time.Nanosecond)),
	} {
		_, err := repo.Create(context.Background(), o)
		require.NoError(t, err)
	}

	total, err := repo.SumQuantity(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1200), total)
}

func TestRepository_SumQuantitySaturates(t *testing.T) {
	repo := NewRepository()
	day := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		order := newOrder(t, 1, "", day)
		order.Quantity = 5_000_000_000_000_000_000
		_, err := repo.Create(context.Background(), order)
		require.NoError(t, err)
	}

	total, err := repo.SumQuantity(context.Background(), day.Add(-time.Hour), day.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), total)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	missing, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.Nil(t, missing)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	require.False(t, saved.CreatedAt.IsZero())

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	require.Equal(t, saved.CreatedAt, again.CreatedAt)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "h2", OrderID: "o2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "o1", existing.OrderID)
}
