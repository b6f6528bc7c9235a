package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"groupbuy-service/models"
)

// CartLine is one entry of a client-held cart: a product reference and a
// requested quantity. Carts are never persisted.
type CartLine struct {
	ProductID int
	Quantity  int
}

// OrderDraft is a fully resolved cart: every line snapshotted against the
// catalog as read at resolution time, with both currency totals accumulated.
// It carries no identity yet; persisting it is the transaction manager's job.
type OrderDraft struct {
	MemberID       string
	Email          string
	Items          []models.OrderItem
	TotalAmountTWD int
	TotalCostCNY   decimal.Decimal
}

type catalogSnapshot struct {
	name     string
	priceTWD int
	costCNY  decimal.Decimal
}

// querier is satisfied by both *sql.DB and *sql.Tx, so resolution can run
// inside the order-creation transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// ResolveCart validates the cart, reads all referenced non-archived products
// in one batched lookup and builds an OrderDraft. Any unresolvable line fails
// the whole cart with a LineItemNotFoundError naming the product. It performs
// no writes.
func ResolveCart(ctx context.Context, q querier, memberID, email string, lines []CartLine) (*OrderDraft, error) {
	if memberID == "" {
		return nil, ErrMissingMemberID
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: line.ProductID, Quantity: line.Quantity}
		}
	}

	catalog, err := fetchSnapshots(ctx, q, lines)
	if err != nil {
		return nil, err
	}
	return buildDraft(memberID, email, lines, catalog)
}

func fetchSnapshots(ctx context.Context, q querier, lines []CartLine) (map[int]catalogSnapshot, error) {
	ids := make([]interface{}, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, price_twd, cost_cny
		 FROM products
		 WHERE is_archived = FALSE AND id IN (`+placeholders+`)`,
		ids...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := make(map[int]catalogSnapshot, len(ids))
	for rows.Next() {
		var (
			id   int
			snap catalogSnapshot
		)
		if err := rows.Scan(&id, &snap.name, &snap.priceTWD, &snap.costCNY); err != nil {
			return nil, err
		}
		catalog[id] = snap
	}
	return catalog, rows.Err()
}

func buildDraft(memberID, email string, lines []CartLine, catalog map[int]catalogSnapshot) (*OrderDraft, error) {
	draft := &OrderDraft{
		MemberID:     memberID,
		Email:        email,
		Items:        make([]models.OrderItem, 0, len(lines)),
		TotalCostCNY: decimal.Zero,
	}

	for _, line := range lines {
		snap, ok := catalog[line.ProductID]
		if !ok {
			return nil, &LineItemNotFoundError{ProductID: line.ProductID}
		}

		lineCost := snap.costCNY.Mul(decimal.NewFromInt(int64(line.Quantity)))
		draft.Items = append(draft.Items, models.OrderItem{
			ProductID:        line.ProductID,
			Quantity:         line.Quantity,
			SnapshotName:     snap.name,
			SnapshotPriceTWD: snap.priceTWD,
			SnapshotCostCNY:  snap.costCNY,
			SubtotalTWD:      snap.priceTWD * line.Quantity,
		})
		draft.TotalAmountTWD += snap.priceTWD * line.Quantity
		draft.TotalCostCNY = draft.TotalCostCNY.Add(lineCost)
	}
	return draft, nil
}
