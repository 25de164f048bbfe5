package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce-service/middlewares"
	"ecommerce-service/models"
	"ecommerce-service/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (ctrl *OrderController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", ctrl.CreateOrder)
	rg.GET("/orders/:id", ctrl.GetOrder)
	rg.GET("/orders/user/:userId", ctrl.GetUserOrders)
	rg.PATCH("/orders/:id/status", ctrl.UpdateOrderStatus)
}

func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("create", success)
	}()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctrl.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (ctrl *OrderController) GetOrder(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("details", success)
	}()

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list", success)
	}()

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	size, err := queryInt(c, "size", 10)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := ctrl.orders.GetUserOrders(c.Request.Context(), userID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("update_status", success)
	}()

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status parameter required"})
		return
	}

	order, err := ctrl.orders.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
