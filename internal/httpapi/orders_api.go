package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	apierrors "github.com/Shreejal-khatri/ElectronicStore/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the orders bounded context for
// customer-facing routes.
type OrdersAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
	responder *apierrors.Responder
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service. When a
// workflow orchestrator is supplied, order creation runs through it.
func NewOrdersAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator, responder *apierrors.Responder) OrdersAPI {
	if responder == nil {
		responder = apierrors.NewResponder(orderErrorMapper, authErrorMapper)
	}
	return OrdersAPI{service: service, workflows: workflows, responder: responder}
}

type createOrderItemPayload struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type createOrderPayload struct {
	Items      []createOrderItemPayload `json:"items"`
	TotalPrice int64                    `json:"totalPrice"`
}

type orderEnvelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Order   OrderView `json:"order"`
}

type orderListEnvelope struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Orders  []OrderView `json:"orders"`
}

// Post /orders
// Place a new order
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	var payload createOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithMessage("invalid request body"))
		return
	}
	items := make([]orderports.ItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, orderports.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	input := orderports.CreateOrderInput{
		Actor:            actor,
		Items:            items,
		ClientTotalCents: payload.TotalPrice,
		IdempotencyKey:   c.GetHeader("Idempotency-Key"),
	}
	order, err := api.createOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderEnvelope{
		Success: true,
		Message: "order placed",
		Order:   toOrderView(order),
	})
}

func (api *OrdersAPI) createOrder(ctx context.Context, input orderports.CreateOrderInput) (*orderdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.CreateOrder(ctx, input)
	}
	return api.service.Create(ctx, input)
}

// Get /orders/my-orders
// List the caller's orders, newest first
func (api *OrdersAPI) ListMyOrders(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	orders, err := api.service.ListByOwner(c.Request.Context(), actor)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderListEnvelope{
		Success: true,
		Count:   len(orders),
		Orders:  toOrderViewList(orders),
	})
}

// Get /orders/:orderId
// Fetch one of the caller's orders
func (api *OrdersAPI) GetOrderById(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderEnvelope{Success: true, Order: toOrderView(order)})
}

// Delete /orders/:orderId
// Cancel an order and return its stock
func (api *OrdersAPI) CancelOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.Cancel(c.Request.Context(), actor, id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierrors.Envelope{Success: true, Message: "order cancelled and stock restored"})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithMessage("invalid %s", name))
		return 0, false
	}
	return id, true
}
