package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

// Service orchestrates order creation, cancellation, and status transitions
// together with their inventory reconciliation.
type Service struct {
	repo        ports.Repository
	products    catalogports.Repository
	ledger      catalogports.Ledger
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
}

type Option func(*Service)

// WithIdempotencyStore enables replay-safe order creation via Idempotency-Key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithEventPublisher emits order lifecycle events after state changes commit.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.events = publisher }
}

// NewService wires the order service with its collaborators.
func NewService(repo ports.Repository, products catalogports.Repository, ledger catalogports.Ledger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		products: products,
		ledger:   ledger,
		events:   ports.NoopPublisher,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.events == nil {
		s.events = ports.NoopPublisher
	}
	return s
}

// Create places an order: it validates the submitted items, prices them from
// the catalog, reserves stock for every item all-or-nothing, and persists the
// aggregate. Any reservation already granted is released before a failure
// surfaces, so no partial deduction is ever observable.
func (s *Service) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintCreate(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != requestHash {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.repo.GetByID(ctx, existing.OrderID)
		}
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, mapProductError(err, item.ProductID)
		}
		items = append(items, domain.LineItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   item.Quantity,
			ImageURL:   product.PrimaryImageURL(),
		})
	}

	// The total comes from catalog prices; a client-submitted total is
	// advisory only and never stored.
	order, err := domain.NewOrder(input.Actor.UserID, items, domain.DefaultStatus)
	if err != nil {
		return nil, err
	}

	reserved := make([]domain.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := s.ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, errors.Join(mapProductError(err, item.ProductID), s.releaseAll(ctx, reserved))
		}
		reserved = append(reserved, item)
	}

	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		// Compensate: the order write failed after stock was deducted.
		return nil, errors.Join(err, s.releaseAll(ctx, reserved))
	}

	if key != "" && s.idempotency != nil {
		record := ports.IdempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			OrderID:     saved.ID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		stored, err := s.idempotency.Save(ctx, record)
		if err != nil {
			if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil {
				// A concurrent retry won the key; its order is the canonical one.
				return s.repo.GetByID(ctx, stored.OrderID)
			}
			return nil, err
		}
		if stored != nil && stored.OrderID != saved.ID {
			// An identical retry raced past the Get check and won the key.
			// Undo this call's duplicate so the logical checkout keeps a
			// single order and a single stock deduction.
			if err := s.discardDuplicate(ctx, saved); err != nil {
				return nil, err
			}
			return s.repo.GetByID(ctx, stored.OrderID)
		}
	}

	s.publish(ctx, ports.EventOrderCreated, saved)
	return saved, nil
}

// GetByID loads an order for its owner. Admins may read any order; everyone
// else sees a stranger's order as not found.
func (s *Service) GetByID(ctx context.Context, actor ports.Actor, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && order.UserID != actor.UserID {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// ListByOwner returns the caller's orders, newest first.
func (s *Service) ListByOwner(ctx context.Context, actor ports.Actor) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, actor.UserID)
}

// Cancel soft-cancels an order and releases its reserved stock. The state
// change is a conditional write keyed on the still-cancellable statuses, so a
// racing shipment or a second cancel loses cleanly and never re-releases
// stock.
func (s *Service) Cancel(ctx context.Context, actor ports.Actor, orderID int64) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !actor.Admin && order.UserID != actor.UserID {
		return ErrUnauthorized
	}
	if !order.Status.Cancellable() {
		return fmt.Errorf("%w: cannot cancel order in status %q", ErrInvalidTransition, order.Status)
	}

	applied, err := s.repo.UpdateStatusFrom(ctx, orderID, domain.CancellableStatuses(), domain.StatusCancelled)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: order is no longer cancellable", ErrInvalidTransition)
	}

	// The guard above applied exactly once for this order, so this release
	// runs at most once per reserved unit.
	var releaseErr error
	for _, item := range order.Items {
		if err := s.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			releaseErr = errors.Join(releaseErr, err)
		}
	}
	if releaseErr != nil {
		return releaseErr
	}

	order.Status = domain.StatusCancelled
	s.publish(ctx, ports.EventOrderCancelled, order)
	return nil
}

// ListAll returns every order for the back office.
func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus applies an admin-driven transition through the status machine.
// The write is conditional on the previously observed status, so a concurrent
// cancellation or another transition makes this attempt fail instead of
// silently overwriting. Stock is never touched here.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.Status) (*domain.Order, error) {
	if status == "" {
		status = domain.DefaultStatus
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}
	applied, err := s.repo.UpdateStatusFrom(ctx, orderID, []domain.Status{order.Status}, status)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: order status changed concurrently", ErrInvalidTransition)
	}
	updated, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ports.EventOrderStatusChanged, updated)
	return updated, nil
}

// discardDuplicate soft-cancels an order that lost an idempotency race and
// returns its stock. The conditional write keeps the release exactly-once,
// matching Cancel.
func (s *Service) discardDuplicate(ctx context.Context, dup *domain.Order) error {
	applied, err := s.repo.UpdateStatusFrom(ctx, dup.ID, domain.CancellableStatuses(), domain.StatusCancelled)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	return s.releaseAll(ctx, dup.Items)
}

func (s *Service) releaseAll(ctx context.Context, reserved []domain.LineItem) error {
	var err error
	for _, item := range reserved {
		err = errors.Join(err, s.ledger.Release(ctx, item.ProductID, item.Quantity))
	}
	return err
}

func (s *Service) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.events == nil || order == nil {
		return
	}
	// Best effort: the state change already committed.
	_ = s.events.Publish(ctx, ports.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalCents: order.TotalCents,
		OccurredAt: time.Now(),
	})
}

func validateItems(items []ports.ItemInput) error {
	if len(items) == 0 {
		return ErrInvalidItems
	}
	for _, item := range items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return ErrInvalidItems
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
