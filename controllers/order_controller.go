package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"groupbuy-service/auth"
	"groupbuy-service/middlewares"
	"groupbuy-service/models"
	"groupbuy-service/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Create runs the checkout: resolve the cart against the catalog, persist
// order and items in one transaction, answer with the full snapshot summary.
func (o *OrderController) Create(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("create", ok)
	}()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]services.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := o.orders.Create(c.Request.Context(), req.MemberID, req.Email, lines)
	if err != nil {
		o.renderCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (o *OrderController) renderCreateError(c *gin.Context, err error) {
	var (
		notFound *services.LineItemNotFoundError
		badQty   *services.InvalidQuantityError
	)
	switch {
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrMissingMemberID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &badQty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "product_id": notFound.ProductID})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
	}
}

// ListMine returns the authenticated customer's own orders.
func (o *OrderController) ListMine(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list_mine", ok)
	}()

	principal, _ := middlewares.CurrentPrincipal(c)
	customer, ok := principal.(auth.Customer)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Customer token required"})
		return
	}

	orders, err := o.orders.ListForMember(c.Request.Context(), customer.MemberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// OperatorList returns the worklist: Pending, Processing and Shipped_Internal
// orders, oldest first.
func (o *OrderController) OperatorList(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("operator_list", ok)
	}()

	orders, err := o.orders.ListForOperator(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// OperatorUpdate lets an operator change status and/or notes on an order in
// the worklist.
func (o *OrderController) OperatorUpdate(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("operator_update", ok)
	}()

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := o.orders.UpdateByOperator(c.Request.Context(), orderID, req.Status, req.Notes)
	if err != nil {
		o.renderUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AdminList returns every order, newest first.
func (o *OrderController) AdminList(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("admin_list", ok)
	}()

	orders, err := o.orders.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AdminUpdate lets an admin change status, notes and the operator assignment
// of any order; an explicit null operator_id clears the assignment.
func (o *OrderController) AdminUpdate(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("admin_update", ok)
	}()

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req models.StaffOrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := o.orders.UpdateByAdmin(c.Request.Context(), orderID, req)
	if err != nil {
		o.renderUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Dashboard returns the admin aggregate: revenue/cost excluding cancelled
// orders plus a 0-filled count for each lifecycle status.
func (o *OrderController) Dashboard(c *gin.Context) {
	summary, err := o.orders.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (o *OrderController) renderUpdateError(c *gin.Context, err error) {
	var invalidStatus *services.InvalidStatusError
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotOperatorVisible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoUpdateFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
