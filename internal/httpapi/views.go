package httpapi

import (
	"time"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
)

// OrderItemView is the wire shape of one line item.
type OrderItemView struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// OrderView is the wire shape of an order. Prices are integer cents.
type OrderView struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	Items      []OrderItemView `json:"items"`
	TotalCents int64           `json:"totalPrice"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toOrderView(order *domain.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemView(item))
	}
	return OrderView{
		ID:         order.ID,
		UserID:     order.UserID,
		Items:      items,
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
	}
}

func toOrderViewList(orders []*domain.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}
	return views
}
