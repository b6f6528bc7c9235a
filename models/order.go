package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses. Cancelled is reachable from any non-terminal
// status; Completed and Cancelled are terminal.
const (
	StatusPending           = "Pending"
	StatusProcessing        = "Processing"
	StatusShippedInternal   = "Shipped_Internal"
	StatusWarehouseReceived = "Warehouse_Received"
	StatusCompleted         = "Completed"
	StatusCancelled         = "Cancelled"
)

// AllStatuses lists every lifecycle status in lifecycle order.
var AllStatuses = []string{
	StatusPending,
	StatusProcessing,
	StatusShippedInternal,
	StatusWarehouseReceived,
	StatusCompleted,
	StatusCancelled,
}

type Order struct {
	ID             int             `json:"id"`
	MemberID       string          `json:"member_id"`
	CustomerEmail  *string         `json:"customer_email"`
	TotalAmountTWD int             `json:"total_amount_twd"`
	TotalCostCNY   decimal.Decimal `json:"total_cost_cny"`
	Status         string          `json:"status"`
	OperatorID     *int            `json:"operator_id"`
	OperatorName   *string         `json:"operator_name,omitempty"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []OrderItem     `json:"items"`
}

// OrderItem carries the product snapshot frozen at order-creation time.
// Snapshot fields are never recomputed from the live product row.
type OrderItem struct {
	ProductID        int             `json:"product_id"`
	Quantity         int             `json:"quantity"`
	SnapshotName     string          `json:"snapshot_name"`
	SnapshotPriceTWD int             `json:"snapshot_price_twd"`
	SnapshotCostCNY  decimal.Decimal `json:"snapshot_cost_cny"`
	SubtotalTWD      int             `json:"subtotal_twd"`
}

type CartItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	MemberID string            `json:"member_id" binding:"required"`
	Email    string            `json:"email"`
	Items    []CartItemRequest `json:"items" binding:"required"`
}

// StaffOrderUpdateRequest is used by operators; admins additionally may move
// or clear the operator assignment through OperatorID.
type StaffOrderUpdateRequest struct {
	Status     *string     `json:"status"`
	Notes      *string     `json:"notes"`
	OperatorID OptionalInt `json:"operator_id"`
}

// DashboardSummary aggregates revenue/cost over non-cancelled orders plus a
// count for every lifecycle status, 0-filled.
type DashboardSummary struct {
	TotalRevenueTWD int             `json:"total_revenue_twd"`
	TotalCostCNY    decimal.Decimal `json:"total_cost_cny"`
	StatusCounts    map[string]int  `json:"status_counts"`
}

// OrderEvent is the message published to RabbitMQ after an order transaction
// commits.
type OrderEvent struct {
	OrderID        int             `json:"order_id"`
	MemberID       string          `json:"member_id"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	Type           string          `json:"type"` // created, status_updated
	Status         string          `json:"status"`
	TotalAmountTWD int             `json:"total_amount_twd"`
	TotalCostCNY   decimal.Decimal `json:"total_cost_cny"`
	Items          []OrderItem     `json:"items,omitempty"`
	Occurred       time.Time       `json:"occurred"`
}
