package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"groupbuy-service/models"
)

type fakePublisher struct {
	events []models.OrderEvent
	err    error
}

func (f *fakePublisher) PublishOrderEvent(event models.OrderEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type OrderServiceSuite struct {
	suite.Suite
	mock      sqlmock.Sqlmock
	publisher *fakePublisher
	service   *OrderService
	closeDB   func() error
}

func (s *OrderServiceSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)

	s.mock = mock
	s.publisher = &fakePublisher{}
	s.service = NewOrderService(db, s.publisher)
	s.closeDB = db.Close
}

func (s *OrderServiceSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.closeDB()
}

func (s *OrderServiceSuite) expectCatalogRead(rows *sqlmock.Rows) {
	s.mock.ExpectQuery("SELECT id, name, price_twd, cost_cny").WillReturnRows(rows)
}

func catalogRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price_twd", "cost_cny"}).
		AddRow(1, "範例商品 A", 850, "120.00").
		AddRow(2, "範例商品 B", 1200, "300.00")
}

func (s *OrderServiceSuite) TestCreateCommitsAndPublishes() {
	s.mock.ExpectBegin()
	s.expectCatalogRead(catalogRows())
	s.mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(42, 1))
	s.mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(2, 1))
	s.mock.ExpectCommit()

	lines := []CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}
	order, err := s.service.Create(context.Background(), "PP12345", "buyer@example.com", lines)
	s.Require().NoError(err)

	s.Equal(42, order.ID)
	s.Equal("PP12345", order.MemberID)
	s.Equal(models.StatusPending, order.Status)
	s.Equal(1900, order.TotalAmountTWD)
	s.True(order.TotalCostCNY.Equal(decimal.RequireFromString("420.00")))
	s.Require().NotNil(order.CustomerEmail)
	s.Equal("buyer@example.com", *order.CustomerEmail)
	s.Len(order.Items, 2)

	s.Require().Len(s.publisher.events, 1)
	event := s.publisher.events[0]
	s.Equal("created", event.Type)
	s.Equal(42, event.OrderID)
	s.Equal(1900, event.TotalAmountTWD)
	s.Len(event.Items, 2)
}

func (s *OrderServiceSuite) TestCreateRollsBackOnMissingProduct() {
	s.mock.ExpectBegin()
	// Product 2 absent (archived or deleted): resolution fails, nothing is
	// inserted, the transaction rolls back.
	s.expectCatalogRead(sqlmock.NewRows([]string{"id", "name", "price_twd", "cost_cny"}).
		AddRow(1, "範例商品 A", 850, "120.00"))
	s.mock.ExpectRollback()

	lines := []CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 1},
	}
	order, err := s.service.Create(context.Background(), "PP12345", "", lines)
	s.Nil(order)

	var notFound *LineItemNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.Equal(2, notFound.ProductID)
	s.Empty(s.publisher.events)
}

func (s *OrderServiceSuite) TestCreateRollsBackOnItemInsertFailure() {
	s.mock.ExpectBegin()
	s.expectCatalogRead(catalogRows())
	s.mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(7, 1))
	s.mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("constraint violation"))
	s.mock.ExpectRollback()

	order, err := s.service.Create(context.Background(), "PP12345", "", []CartLine{{ProductID: 1, Quantity: 1}})
	s.Nil(order)
	s.Error(err)
	s.Empty(s.publisher.events)
}

func (s *OrderServiceSuite) TestCreateSurvivesPublishFailure() {
	s.publisher.err = errors.New("broker down")

	s.mock.ExpectBegin()
	s.expectCatalogRead(catalogRows())
	s.mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(9, 1))
	s.mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	order, err := s.service.Create(context.Background(), "PP12345", "", []CartLine{{ProductID: 1, Quantity: 1}})
	s.Require().NoError(err)
	s.Equal(9, order.ID)
}

func orderHeadColumns() []string {
	return []string{
		"id", "member_id", "customer_email", "total_amount_twd", "total_cost_cny",
		"status", "operator_id", "username", "notes", "created_at",
	}
}

func (s *OrderServiceSuite) expectGetByID(orderID int, status string, operatorID interface{}, operatorName interface{}) {
	s.mock.ExpectQuery("SELECT o.id, o.member_id").
		WillReturnRows(sqlmock.NewRows(orderHeadColumns()).
			AddRow(orderID, "PP12345", nil, 1900, "420.00", status, operatorID, operatorName, nil, time.Now()))
	s.mock.ExpectQuery("FROM order_items").
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "quantity", "snapshot_name", "snapshot_price_twd", "snapshot_cost_cny",
		}).AddRow(1, 2, "範例商品 A", 850, "120.00"))
}

func (s *OrderServiceSuite) TestUpdateByOperatorVisibleOrder() {
	s.mock.ExpectQuery("SELECT status FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.StatusPending))
	s.mock.ExpectExec("UPDATE orders SET").WillReturnResult(sqlmock.NewResult(0, 1))
	s.expectGetByID(3, models.StatusProcessing, nil, nil)

	status := models.StatusProcessing
	order, err := s.service.UpdateByOperator(context.Background(), 3, &status, nil)
	s.Require().NoError(err)
	s.Equal(models.StatusProcessing, order.Status)

	s.Require().Len(s.publisher.events, 1)
	s.Equal("status_updated", s.publisher.events[0].Type)
}

func (s *OrderServiceSuite) TestUpdateByOperatorHiddenOrder() {
	s.mock.ExpectQuery("SELECT status FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.StatusCompleted))

	status := models.StatusProcessing
	_, err := s.service.UpdateByOperator(context.Background(), 3, &status, nil)
	s.ErrorIs(err, ErrNotOperatorVisible)
	s.Empty(s.publisher.events)
}

func (s *OrderServiceSuite) TestUpdateByOperatorMissingOrder() {
	s.mock.ExpectQuery("SELECT status FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	status := models.StatusProcessing
	_, err := s.service.UpdateByOperator(context.Background(), 404, &status, nil)
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderServiceSuite) TestUpdateByOperatorRequiresAField() {
	_, err := s.service.UpdateByOperator(context.Background(), 3, nil, nil)
	s.ErrorIs(err, ErrNoUpdateFields)
}

func (s *OrderServiceSuite) TestUpdateByOperatorRejectsUnknownStatus() {
	status := "Shipped"
	_, err := s.service.UpdateByOperator(context.Background(), 3, &status, nil)

	var invalid *InvalidStatusError
	s.Require().ErrorAs(err, &invalid)
	s.Equal("Shipped", invalid.Status)
}

func (s *OrderServiceSuite) TestUpdateByAdminAssignsOperator() {
	s.mock.ExpectExec("UPDATE orders SET").WillReturnResult(sqlmock.NewResult(0, 1))
	s.expectGetByID(3, models.StatusPending, 7, "operator_one")

	operatorID := 7
	order, err := s.service.UpdateByAdmin(context.Background(), 3, models.StaffOrderUpdateRequest{
		OperatorID: models.OptionalInt{Present: true, Value: &operatorID},
	})
	s.Require().NoError(err)
	s.Require().NotNil(order.OperatorID)
	s.Equal(7, *order.OperatorID)
	s.Require().NotNil(order.OperatorName)
	s.Equal("operator_one", *order.OperatorName)
	// No status change, no event.
	s.Empty(s.publisher.events)
}

func (s *OrderServiceSuite) TestUpdateByAdminClearsOperator() {
	s.mock.ExpectExec("UPDATE orders SET").WillReturnResult(sqlmock.NewResult(0, 1))
	s.expectGetByID(3, models.StatusPending, nil, nil)

	order, err := s.service.UpdateByAdmin(context.Background(), 3, models.StaffOrderUpdateRequest{
		OperatorID: models.OptionalInt{Present: true, Value: nil},
	})
	s.Require().NoError(err)
	s.Nil(order.OperatorID)
}

func (s *OrderServiceSuite) TestUpdateByAdminTouchesAnyStatus() {
	// Admins may update orders outside the operator-visible set; no status
	// precheck happens.
	s.mock.ExpectExec("UPDATE orders SET").WillReturnResult(sqlmock.NewResult(0, 1))
	s.expectGetByID(3, models.StatusCompleted, nil, nil)

	status := models.StatusCompleted
	order, err := s.service.UpdateByAdmin(context.Background(), 3, models.StaffOrderUpdateRequest{Status: &status})
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, order.Status)
	s.Require().Len(s.publisher.events, 1)
	s.Equal("status_updated", s.publisher.events[0].Type)
}

func (s *OrderServiceSuite) TestListForOperatorGroupsItems() {
	columns := append(orderHeadColumns(),
		"product_id", "quantity", "snapshot_name", "snapshot_price_twd", "snapshot_cost_cny")
	created := time.Now()
	s.mock.ExpectQuery("LEFT JOIN order_items").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "PP12345", nil, 1900, "420.00", models.StatusPending, nil, nil, nil, created,
				1, 2, "範例商品 A", 850, "120.00").
			AddRow(1, "PP12345", nil, 1900, "420.00", models.StatusPending, nil, nil, nil, created,
				2, 1, "範例商品 B", 1200, "300.00").
			AddRow(2, "PP67890", nil, 850, "120.00", models.StatusProcessing, 7, "operator_one", nil, created,
				1, 1, "範例商品 A", 850, "120.00"))

	orders, err := s.service.ListForOperator(context.Background())
	s.Require().NoError(err)
	s.Require().Len(orders, 2)

	s.Equal(1, orders[0].ID)
	s.Len(orders[0].Items, 2)
	s.Equal(1700, orders[0].Items[0].SubtotalTWD)

	s.Equal(2, orders[1].ID)
	s.Require().NotNil(orders[1].OperatorName)
	s.Equal("operator_one", *orders[1].OperatorName)
}

func (s *OrderServiceSuite) TestDashboardFillsAllStatuses() {
	s.mock.ExpectQuery("COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "cost"}).AddRow(2750, "540.00"))
	s.mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(models.StatusPending, 2).
			AddRow(models.StatusCancelled, 1))

	summary, err := s.service.Dashboard(context.Background())
	s.Require().NoError(err)

	s.Equal(2750, summary.TotalRevenueTWD)
	s.True(summary.TotalCostCNY.Equal(decimal.RequireFromString("540.00")))

	s.Len(summary.StatusCounts, 6)
	s.Equal(2, summary.StatusCounts[models.StatusPending])
	s.Equal(1, summary.StatusCounts[models.StatusCancelled])
	s.Equal(0, summary.StatusCounts[models.StatusWarehouseReceived])
	s.Equal(0, summary.StatusCounts[models.StatusCompleted])
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}
