package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() map[int]catalogSnapshot {
	return map[int]catalogSnapshot{
		1: {name: "範例商品 A", priceTWD: 850, costCNY: decimal.RequireFromString("120.00")},
		2: {name: "範例商品 B", priceTWD: 1200, costCNY: decimal.RequireFromString("300.00")},
	}
}

func TestBuildDraftTotals(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	draft, err := buildDraft("PP12345", "buyer@example.com", lines, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 1900, draft.TotalAmountTWD)
	assert.True(t, draft.TotalCostCNY.Equal(decimal.RequireFromString("420.00")),
		"expected total cost 420.00, got %s", draft.TotalCostCNY)
	require.Len(t, draft.Items, 2)

	first := draft.Items[0]
	assert.Equal(t, 1, first.ProductID)
	assert.Equal(t, "範例商品 A", first.SnapshotName)
	assert.Equal(t, 850, first.SnapshotPriceTWD)
	assert.True(t, first.SnapshotCostCNY.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, 1700, first.SubtotalTWD)

	second := draft.Items[1]
	assert.Equal(t, 2, second.ProductID)
	assert.Equal(t, 1200, second.SubtotalTWD)
}

func TestBuildDraftMissingProductFailsWhole(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}

	draft, err := buildDraft("PP12345", "", lines, testCatalog())
	assert.Nil(t, draft)

	var notFound *LineItemNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 99, notFound.ProductID)
}

func TestResolveCartValidation(t *testing.T) {
	ctx := context.Background()

	_, err := ResolveCart(ctx, nil, "", "", []CartLine{{ProductID: 1, Quantity: 1}})
	assert.True(t, errors.Is(err, ErrMissingMemberID))

	_, err = ResolveCart(ctx, nil, "PP12345", "", nil)
	assert.True(t, errors.Is(err, ErrEmptyCart))

	_, err = ResolveCart(ctx, nil, "PP12345", "", []CartLine{{ProductID: 7, Quantity: 0}})
	var badQty *InvalidQuantityError
	require.ErrorAs(t, err, &badQty)
	assert.Equal(t, 7, badQty.ProductID)

	_, err = ResolveCart(ctx, nil, "PP12345", "", []CartLine{{ProductID: 7, Quantity: -3}})
	require.ErrorAs(t, err, &badQty)
	assert.Equal(t, -3, badQty.Quantity)
}

func TestResolveCartBatchesAndDedupes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Two lines for the same product must produce one lookup argument.
	mock.ExpectQuery("SELECT id, name, price_twd, cost_cny").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_twd", "cost_cny"}).
			AddRow(1, "範例商品 A", 850, "120.00"))

	lines := []CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 1},
	}
	draft, err := ResolveCart(context.Background(), db, "PP12345", "", lines)
	require.NoError(t, err)

	assert.Equal(t, 850*3, draft.TotalAmountTWD)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCartArchivedProductMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The archived product is filtered out by the query, so the result set
	// simply does not contain it.
	mock.ExpectQuery("SELECT id, name, price_twd, cost_cny").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_twd", "cost_cny"}))

	_, err = ResolveCart(context.Background(), db, "PP12345", "", []CartLine{{ProductID: 5, Quantity: 1}})

	var notFound *LineItemNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 5, notFound.ProductID)
}
