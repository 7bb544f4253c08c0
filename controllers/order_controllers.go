package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Location *time.Location
}

func NewOrderController(orders *services.OrderService, loc *time.Location) *OrderController {
	return &OrderController{Orders: orders, Location: loc}
}

// CreateOrder -> POST /api/orders
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.Orders.Create(c.Request.Context(), middlewares.TenantFrom(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetTodayOrders -> orders of the caller's calendar day, newest first
func (oc *OrderController) GetTodayOrders(c *gin.Context) {
	loc, err := requestLocation(c, oc.Location)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	orders, err := oc.Orders.ListToday(c.Request.Context(), middlewares.TenantFrom(c), loc)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Today's orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Orders.Get(c.Request.Context(), middlewares.TenantFrom(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.Orders.Transition(c.Request.Context(), middlewares.TenantFrom(c), c.Param("id"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if err := oc.Orders.Delete(c.Request.Context(), middlewares.TenantFrom(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}
