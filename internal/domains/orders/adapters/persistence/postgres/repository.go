package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The schema is owned by platform/migrations.
type Repository struct {
	db    *gorm.DB
	newID func() string
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, newID: ports.NewOrderID}
}

type orderRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string    `gorm:"column:customer_id"`
	Address    string    `gorm:"column:address"`
	City       string    `gorm:"column:city"`
	State      string    `gorm:"column:state"`
	Pincode    string    `gorm:"column:pincode"`
	Quantity   int64     `gorm:"column:quantity"`
	Status     string    `gorm:"column:status"`
	OrderedAt  time.Time `gorm:"column:ordered_at"`
	Version    int64     `gorm:"column:version"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order under a fresh id.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = r.newID()
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, storageError(err)
	}
	return record.toProjection(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	key, err := ports.ParseOrderID(id)
	if err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, storageError(err)
	}
	return record.toProjection(), nil
}

// List returns orders newest first, optionally restricted to a status set.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("ordered_at DESC").Order("id ASC")
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status = ANY(?)", pq.Array(statuses))
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, storageError(err)
	}
	result := make([]*projection.Projection[*domain.Order], 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result, nil
}

// Update overwrites the mutable columns and bumps the version. A non-zero expectedVersion turns the
// write into a compare-and-swap.
func (r *Repository) Update(ctx context.Context, order *domain.Order, expectedVersion int64) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	key, err := ports.ParseOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", key)
	if expectedVersion != 0 {
		query = query.Where("version = ?", expectedVersion)
	}
	record := toRecord(order)
	result := query.Updates(map[string]any{
		"address":    record.Address,
		"city":       record.City,
		"state":      record.State,
		"pincode":    record.Pincode,
		"quantity":   record.Quantity,
		"status":     record.Status,
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, key); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, key)
}

// Delete removes an order by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	key, err := ports.ParseOrderID(id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", key)
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// SumQuantity totals quantity for orders with from <= ordered_at < to. SUM over bigint yields numeric,
// so the total is saturated before the cast back to bigint.
func (r *Repository) SumQuantity(ctx context.Context, from, to time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("LEAST(COALESCE(SUM(quantity), 0), 9223372036854775807)::bigint").
		Where("ordered_at >= ? AND ordered_at < ?", from.UTC(), to.UTC()).
		Scan(&total).Error
	if err != nil {
		return 0, storageError(err)
	}
	return total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ports.ErrStorage, err)
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Address:    order.DeliveryAddress.Address,
		City:       order.DeliveryAddress.City,
		State:      order.DeliveryAddress.State,
		Pincode:    order.DeliveryAddress.Pincode,
		Quantity:   order.Quantity,
		Status:     string(order.Status),
		OrderedAt:  order.OrderedAt.UTC(),
	}
}

func (r orderRecord) toProjection() *projection.Projection[*domain.Order] {
	return &projection.Projection[*domain.Order]{
		Entity: &domain.Order{
			ID:         r.ID,
			CustomerID: r.CustomerID,
			DeliveryAddress: domain.DeliveryAddress{
				Address: r.Address,
				City:    r.City,
				State:   r.State,
				Pincode: r.Pincode,
			},
			Quantity:  r.Quantity,
			Status:    domain.Status(r.Status),
			OrderedAt: r.OrderedAt.UTC(),
		},
		Metadata: projection.Metadata{
			CreatedAt: r.CreatedAt.UTC(),
			UpdatedAt: r.UpdatedAt.UTC(),
			Version:   r.Version,
		},
	}
}
