// Package httpapi exposes the storefront order API over gin.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	userports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/ports"
	apierrors "github.com/Shreejal-khatri/ElectronicStore/internal/shared/errors"
)

// RouterDeps carries the collaborators the HTTP surface needs.
type RouterDeps struct {
	Orders    orderports.Service
	Workflows orderports.WorkflowOrchestrator
	Users     userports.Service
}

// NewRouter builds the gin engine with customer and admin order routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	responder := apierrors.NewResponder(orderErrorMapper, authErrorMapper)
	ordersAPI := NewOrdersAPI(deps.Orders, deps.Workflows, responder)
	adminAPI := NewAdminOrdersAPI(deps.Orders, responder)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := router.Group("/", RequireAuth(deps.Users, responder))

	orders := authed.Group("/orders")
	orders.POST("", ordersAPI.CreateOrder)
	orders.GET("/my-orders", ordersAPI.ListMyOrders)
	orders.GET("/:orderId", ordersAPI.GetOrderById)
	orders.DELETE("/:orderId", ordersAPI.CancelOrder)

	admin := authed.Group("/admin/orders", RequireAdmin())
	admin.GET("", adminAPI.ListOrders)
	admin.GET("/:orderId", adminAPI.GetOrderById)
	admin.PUT("/:orderId/status", adminAPI.UpdateOrderStatus)

	return router
}
