package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ordertypes "github.com/name-hansel/kore-ai-api/internal/domains/orders/application/types"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/validation"
)

// Config carries the business settings of the orders context.
type Config struct {
	MaxDailyCapacity   int64
	Location           *time.Location
	EnforceStatusOrder bool
}

// Option customizes a Service.
type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key handling on AddOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithEventPublisher hands domain events to publisher after every successful write.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.events = publisher }
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo        ports.Repository
	capacity    *CapacityCalculator
	policy      domain.TransitionPolicy
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	now         func() time.Time
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, cfg Config, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		capacity: NewCapacityCalculator(repo, cfg.MaxDailyCapacity, cfg.Location),
		policy:   domain.TransitionAny,
		now:      time.Now,
	}
	if cfg.EnforceStatusOrder {
		s.policy = domain.TransitionForwardOnly
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capacity exposes the calculator for background jobs.
func (s *Service) Capacity() *CapacityCalculator {
	return s.capacity
}

// AddOrder validates and persists a new order.
func (s *Service) AddOrder(ctx context.Context, input ordertypes.AddOrderInput) (*ordertypes.OrderProjection, error) {
	if problems := validation.ValidateCreate(input.OrderInput); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.createOrder(ctx, input.OrderInput)
	}

	fingerprint, err := FingerprintAddOrder(input)
	if err != nil {
		return nil, err
	}
	record, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return s.replay(ctx, record, fingerprint)
	}

	saved, err := s.createOrder(ctx, input.OrderInput)
	if err != nil {
		return nil, err
	}
	stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: fingerprint,
		OrderID:     saved.Entity.ID,
	})
	if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil {
		// A concurrent request claimed the key first; drop our copy and defer to it.
		if delErr := s.repo.Delete(ctx, saved.Entity.ID); delErr != nil && !errors.Is(delErr, ports.ErrNotFound) {
			return nil, fmt.Errorf("discard order %s after idempotency race: %w", saved.Entity.ID, delErr)
		}
		return s.replay(ctx, stored, fingerprint)
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, fingerprint string) (*ordertypes.OrderProjection, error) {
	if record.RequestHash != fingerprint {
		return nil, fmt.Errorf("%w: key %q was used with a different payload", ports.ErrIdempotencyConflict, record.Key)
	}
	existing, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	return existing, nil
}

func (s *Service) createOrder(ctx context.Context, input ordertypes.OrderInput) (*ordertypes.OrderProjection, error) {
	quantity, _ := validation.ParseQuantity(input.Quantity)
	order, err := domain.NewOrder(input.CustomerID, toDomainAddress(input.DeliveryAddress), quantity, domain.Status(input.Status), s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderPlaced{
		BaseEvent:  domain.BaseEvent{OrderID: saved.Entity.ID, Timestamp: s.now()},
		CustomerID: saved.Entity.CustomerID,
		Quantity:   saved.Entity.Quantity,
		Status:     saved.Entity.Status,
		OrderedAt:  saved.Entity.OrderedAt,
	})
	return saved, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// ListOrders returns every order, optionally restricted to the given statuses.
func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderProjection, error) {
	filter := ports.ListFilter{}
	for _, raw := range input.Statuses {
		status, err := domain.ParseStatus(strings.TrimSpace(raw))
		if err != nil {
			return nil, &ValidationError{Problems: []string{validation.MsgInvalidStatus}, Cause: domain.ErrInvalidStatus}
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// EditOrder replaces delivery address, quantity and (when supplied) status.
func (s *Service) EditOrder(ctx context.Context, input ordertypes.EditOrderInput) (*ordertypes.OrderProjection, error) {
	if problems := validation.ValidateEdit(input.OrderInput); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	order := projection.Entity
	previousQuantity, previousStatus := order.Quantity, order.Status

	quantity, _ := validation.ParseQuantity(input.Quantity)
	if err := order.Edit(toDomainAddress(input.DeliveryAddress), quantity, domain.Status(input.Status), s.policy); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, order, input.IfVersion)
	if err != nil {
		return nil, mapError(err)
	}

	events := []domain.Event{domain.OrderUpdated{
		BaseEvent:        domain.BaseEvent{OrderID: saved.Entity.ID, Timestamp: s.now()},
		Quantity:         saved.Entity.Quantity,
		PreviousQuantity: previousQuantity,
		Status:           saved.Entity.Status,
	}}
	if previousStatus != saved.Entity.Status {
		events = append(events, s.statusChanged(saved.Entity.ID, previousStatus, saved.Entity.Status))
	}
	s.publish(ctx, events...)
	return saved, nil
}

// UpdateStatus overwrites the status of an order.
func (s *Service) UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderProjection, error) {
	if problems := validation.ValidateStatus(input.Status); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems, Cause: domain.ErrInvalidStatus}
	}
	projection, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	order := projection.Entity
	previous := order.Status
	if err := order.UpdateStatus(domain.Status(input.Status), s.policy); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, order, input.IfVersion)
	if err != nil {
		return nil, mapError(err)
	}
	if previous != saved.Entity.Status {
		s.publish(ctx, s.statusChanged(saved.Entity.ID, previous, saved.Entity.Status))
	}
	return saved, nil
}

// DeleteOrder permanently removes an order.
func (s *Service) DeleteOrder(ctx context.Context, input ordertypes.OrderIdentifier) error {
	id, err := ports.ParseOrderID(input.ID)
	if err != nil {
		return mapError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	s.publish(ctx, domain.OrderDeleted{BaseEvent: domain.BaseEvent{OrderID: id, Timestamp: s.now()}})
	return nil
}

// CheckCapacity reports how much milk is still available on a dd-mm-yyyy date.
func (s *Service) CheckCapacity(ctx context.Context, input ordertypes.CapacityQuery) (*ordertypes.Capacity, error) {
	day, err := validation.ParseDate(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	capacity, err := s.capacity.Remaining(ctx, day)
	if err != nil {
		return nil, mapError(err)
	}
	return capacity, nil
}

func (s *Service) statusChanged(id string, from, to domain.Status) domain.OrderStatusChanged {
	return domain.OrderStatusChanged{
		BaseEvent:  domain.BaseEvent{OrderID: id, Timestamp: s.now()},
		FromStatus: from,
		ToStatus:   to,
	}
}

func (s *Service) publish(ctx context.Context, events ...domain.Event) {
	if s.events == nil || len(events) == 0 {
		return
	}
	s.events.Publish(ctx, events...)
}

func toDomainAddress(input *ordertypes.DeliveryAddressInput) domain.DeliveryAddress {
	if input == nil {
		return domain.DeliveryAddress{}
	}
	return domain.DeliveryAddress{
		Address: input.Address,
		City:    input.City,
		State:   input.State,
		Pincode: input.Pincode,
	}
}

var _ ports.Service = (*Service)(nil)
