package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	apierrors "github.com/Shreejal-khatri/ElectronicStore/internal/shared/errors"
)

// AdminOrdersAPI wires HTTP transport with the back-office order routes.
type AdminOrdersAPI struct {
	service   orderports.Service
	responder *apierrors.Responder
}

// NewAdminOrdersAPI creates an AdminOrdersAPI backed by the provided service.
func NewAdminOrdersAPI(service orderports.Service, responder *apierrors.Responder) AdminOrdersAPI {
	if responder == nil {
		responder = apierrors.NewResponder(orderErrorMapper, authErrorMapper)
	}
	return AdminOrdersAPI{service: service, responder: responder}
}

type updateStatusPayload struct {
	Status string `json:"status"`
}

// Get /admin/orders
// List every order, newest first
func (api *AdminOrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListAll(c.Request.Context())
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

// Get /admin/orders/:orderId
// Fetch any order by id
func (api *AdminOrdersAPI) GetOrderById(c *gin.Context) {
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

// Put /admin/orders/:orderId/status
// Transition an order through the status machine
func (api *AdminOrdersAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload updateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithMessage("invalid request body"))
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), id, orderdomain.Status(payload.Status))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderEnvelope{
		Success: true,
		Message: "order status updated",
		Order:   toOrderView(order),
	})
}
