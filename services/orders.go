package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"groupbuy-service/models"
)

// EventPublisher is the outbound side of the notification hook. Publishing is
// strictly best-effort: the order service logs failures and moves on.
type EventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// OrderService owns the order-creation transaction and every order mutation
// and listing the staff surface exposes.
type OrderService struct {
	db        *sql.DB
	publisher EventPublisher
}

func NewOrderService(db *sql.DB, publisher EventPublisher) *OrderService {
	return &OrderService{db: db, publisher: publisher}
}

// Create converts a cart into a persisted order. The catalog read and both
// inserts share one transaction, so the snapshots reflect a consistent
// point-in-time view of the products and a failed attempt leaves zero rows.
// The confirmation event fires only after commit.
func (s *OrderService) Create(ctx context.Context, memberID, email string, lines []CartLine) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	draft, err := ResolveCart(ctx, tx, memberID, email, lines)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	createdAt := time.Now()
	var customerEmail interface{}
	if draft.Email != "" {
		customerEmail = draft.Email
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (member_id, customer_email, total_amount_twd, total_cost_cny, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		draft.MemberID, customerEmail, draft.TotalAmountTWD, draft.TotalCostCNY, models.StatusPending, createdAt,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range draft.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, snapshot_name, snapshot_price_twd, snapshot_cost_cny)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, item.ProductID, item.Quantity, item.SnapshotName, item.SnapshotPriceTWD, item.SnapshotCostCNY,
		)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             int(orderID),
		MemberID:       draft.MemberID,
		TotalAmountTWD: draft.TotalAmountTWD,
		TotalCostCNY:   draft.TotalCostCNY,
		Status:         models.StatusPending,
		CreatedAt:      createdAt,
		Items:          draft.Items,
	}
	if draft.Email != "" {
		order.CustomerEmail = &draft.Email
	}

	s.publish(models.OrderEvent{
		OrderID:        order.ID,
		MemberID:       order.MemberID,
		CustomerEmail:  draft.Email,
		Type:           "created",
		Status:         order.Status,
		TotalAmountTWD: order.TotalAmountTWD,
		TotalCostCNY:   order.TotalCostCNY,
		Items:          order.Items,
		Occurred:       createdAt,
	})

	return order, nil
}

// publish is log-and-continue: a notification failure never fails the caller.
func (s *OrderService) publish(event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		log.Printf("Failed to publish order event (order %d, type %s): %v", event.OrderID, event.Type, err)
	}
}

// GetByID loads one order with its items.
func (s *OrderService) GetByID(ctx context.Context, orderID int) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRowContext(ctx,
		`SELECT o.id, o.member_id, o.customer_email, o.total_amount_twd, o.total_cost_cny,
		        o.status, o.operator_id, u.username, o.notes, o.created_at
		 FROM orders o
		 LEFT JOIN users u ON u.id = o.operator_id
		 WHERE o.id = ?`,
		orderID,
	).Scan(
		&order.ID, &order.MemberID, &order.CustomerEmail, &order.TotalAmountTWD, &order.TotalCostCNY,
		&order.Status, &order.OperatorID, &order.OperatorName, &order.Notes, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, quantity, snapshot_name, snapshot_price_twd, snapshot_cost_cny
		 FROM order_items
		 WHERE order_id = ?
		 ORDER BY id ASC`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.SnapshotName, &item.SnapshotPriceTWD, &item.SnapshotCostCNY); err != nil {
			return nil, err
		}
		item.SubtotalTWD = item.SnapshotPriceTWD * item.Quantity
		order.Items = append(order.Items, item)
	}
	return &order, rows.Err()
}

// ListForOperator returns the operator worklist: Pending, Processing and
// Shipped_Internal orders, oldest first.
func (s *OrderService) ListForOperator(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx,
		"WHERE o.status IN (?, ?, ?)",
		"ORDER BY o.created_at ASC, o.id ASC, oi.id ASC",
		models.StatusPending, models.StatusProcessing, models.StatusShippedInternal,
	)
}

// ListAll returns every order regardless of status, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, "", "ORDER BY o.created_at DESC, o.id DESC, oi.id ASC")
}

// ListForMember returns a customer's own orders, newest first.
func (s *OrderService) ListForMember(ctx context.Context, memberID string) ([]models.Order, error) {
	return s.listOrders(ctx,
		"WHERE o.member_id = ?",
		"ORDER BY o.created_at DESC, o.id DESC, oi.id ASC",
		memberID,
	)
}

func (s *OrderService) listOrders(ctx context.Context, where, orderBy string, args ...interface{}) ([]models.Order, error) {
	query := `SELECT o.id, o.member_id, o.customer_email, o.total_amount_twd, o.total_cost_cny,
	                 o.status, o.operator_id, u.username, o.notes, o.created_at,
	                 oi.product_id, oi.quantity, oi.snapshot_name, oi.snapshot_price_twd, oi.snapshot_cost_cny
	          FROM orders o
	          LEFT JOIN users u ON u.id = o.operator_id
	          LEFT JOIN order_items oi ON oi.order_id = o.id `
	if where != "" {
		query += where + " "
	}
	query += orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]*models.Order)
	ordered := make([]int, 0)

	for rows.Next() {
		var (
			order        models.Order
			productID    sql.NullInt64
			quantity     sql.NullInt64
			snapName     sql.NullString
			snapPriceTWD sql.NullInt64
			snapCostCNY  decimal.NullDecimal
		)
		err := rows.Scan(
			&order.ID, &order.MemberID, &order.CustomerEmail, &order.TotalAmountTWD, &order.TotalCostCNY,
			&order.Status, &order.OperatorID, &order.OperatorName, &order.Notes, &order.CreatedAt,
			&productID, &quantity, &snapName, &snapPriceTWD, &snapCostCNY,
		)
		if err != nil {
			return nil, err
		}

		existing, ok := byID[order.ID]
		if !ok {
			order.Items = []models.OrderItem{}
			byID[order.ID] = &order
			ordered = append(ordered, order.ID)
			existing = &order
		}

		if productID.Valid {
			item := models.OrderItem{
				ProductID:        int(productID.Int64),
				Quantity:         int(quantity.Int64),
				SnapshotName:     snapName.String,
				SnapshotPriceTWD: int(snapPriceTWD.Int64),
				SnapshotCostCNY:  snapCostCNY.Decimal,
			}
			item.SubtotalTWD = item.SnapshotPriceTWD * item.Quantity
			existing.Items = append(existing.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ordered))
	for _, id := range ordered {
		orders = append(orders, *byID[id])
	}
	return orders, nil
}

// UpdateByOperator applies a status and/or notes change to an order that is
// currently in the operator-visible set. Orders outside that set are
// untouchable for operators even though they still exist in storage.
func (s *OrderService) UpdateByOperator(ctx context.Context, orderID int, status, notes *string) (*models.Order, error) {
	if status == nil && notes == nil {
		return nil, ErrNoUpdateFields
	}
	if status != nil && !IsValidStatus(*status) {
		return nil, &InvalidStatusError{Status: *status}
	}

	var current string
	err := s.db.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = ?", orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !OperatorVisible(current) {
		return nil, ErrNotOperatorVisible
	}

	assignments := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if status != nil {
		assignments = append(assignments, "status = ?")
		args = append(args, *status)
	}
	if notes != nil {
		assignments = append(assignments, "notes = ?")
		args = append(args, *notes)
	}
	args = append(args, orderID)

	_, err = s.db.ExecContext(ctx,
		"UPDATE orders SET "+strings.Join(assignments, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, err
	}

	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if status != nil {
		s.publish(models.OrderEvent{
			OrderID:  order.ID,
			MemberID: order.MemberID,
			Type:     "status_updated",
			Status:   order.Status,
			Occurred: time.Now(),
		})
	}
	return order, nil
}

// UpdateByAdmin applies any subset of status, notes and operator assignment to
// any order. A present-but-null operator_id clears the assignment. Unset
// fields are preserved. Concurrent edits are last-write-wins.
func (s *OrderService) UpdateByAdmin(ctx context.Context, orderID int, req models.StaffOrderUpdateRequest) (*models.Order, error) {
	if req.Status == nil && req.Notes == nil && !req.OperatorID.Present {
		return nil, ErrNoUpdateFields
	}
	if req.Status != nil && !IsValidStatus(*req.Status) {
		return nil, &InvalidStatusError{Status: *req.Status}
	}

	assignments := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if req.Status != nil {
		assignments = append(assignments, "status = ?")
		args = append(args, *req.Status)
	}
	if req.Notes != nil {
		assignments = append(assignments, "notes = ?")
		args = append(args, *req.Notes)
	}
	if req.OperatorID.Present {
		assignments = append(assignments, "operator_id = ?")
		if req.OperatorID.Value == nil {
			args = append(args, nil)
		} else {
			args = append(args, *req.OperatorID.Value)
		}
	}
	args = append(args, orderID)

	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET "+strings.Join(assignments, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, err
	}

	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		s.publish(models.OrderEvent{
			OrderID:  order.ID,
			MemberID: order.MemberID,
			Type:     "status_updated",
			Status:   order.Status,
			Occurred: time.Now(),
		})
	}
	return order, nil
}

// Dashboard sums revenue and cost over non-cancelled orders and counts orders
// per status. Every status key is present in the result, 0-filled.
func (s *OrderService) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{
		TotalCostCNY: decimal.Zero,
		StatusCounts: make(map[string]int, len(models.AllStatuses)),
	}
	for _, status := range models.AllStatuses {
		summary.StatusCounts[status] = 0
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount_twd), 0), COALESCE(SUM(total_cost_cny), 0)
		 FROM orders
		 WHERE status <> ?`,
		models.StatusCancelled,
	).Scan(&summary.TotalRevenueTWD, &summary.TotalCostCNY)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.StatusCounts[status] = count
	}
	return summary, rows.Err()
}
