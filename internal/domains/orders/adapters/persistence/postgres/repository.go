package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Line items are stored
// as a JSON column on the order row; they are immutable snapshots, never
// queried independently.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Caller manages DB
// lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type lineItemRecord struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int64  `json:"quantity"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID         int64            `gorm:"primaryKey;autoIncrement;column:id"`
	UserID     int64            `gorm:"column:user_id;index"`
	Items      []lineItemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	TotalCents int64            `gorm:"column:total_cents"`
	Status     string           `gorm:"column:status;index"`
	CreatedAt  time.Time        `gorm:"column:created_at"`
	UpdatedAt  time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order row and returns it with its assigned identifier.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByUser returns one user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// UpdateStatusFrom moves the order to the target status with a single
// conditional UPDATE keyed on the permitted current statuses. A concurrent
// transition makes the guard miss and the caller sees applied=false.
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int64, from []domain.Status, to domain.Status) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	statuses := make([]string, 0, len(from))
	for _, status := range from {
		statuses = append(statuses, string(status))
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	// Zero rows: missing order or guard miss. Re-read to tell apart.
	var record orderRecord
	if err := r.db.WithContext(ctx).Select("id").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ports.ErrNotFound
		}
		return false, err
	}
	return false, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]lineItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemRecord(item))
	}
	return orderRecord{
		ID:         order.ID,
		UserID:     order.UserID,
		Items:      items,
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem(item))
	}
	return &domain.Order{
		ID:         r.ID,
		UserID:     r.UserID,
		Items:      items,
		TotalCents: r.TotalCents,
		Status:     domain.Status(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

func toDomainList(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
