package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"willowmart/internal/app/storefront/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryTestSuite тестовый suite для PostgreSQL repository заказов
type OrderRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  OrderRepository
	sqlDB *sql.DB
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewOrderRepository(s.db)
}

func (s *OrderRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func testOrderWithItems() (*entity.Order, []entity.OrderItem) {
	orderID := uuid.New()
	order := &entity.Order{
		ID:            orderID,
		UserID:        uuid.New(),
		TotalPrice:    60.0,
		Status:        entity.OrderStatusConfirmed,
		PaymentStatus: entity.PaymentStatusPaid,
		Shipping: entity.ShippingAddress{
			Name:       "Анна Соколова",
			Email:      "anna@example.com",
			Street:     "Невский проспект, 12",
			City:       "Санкт-Петербург",
			PostalCode: "191186",
			Country:    "Россия",
		},
		CreatedAt: time.Now(),
	}
	items := []entity.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 2, UnitPrice: 30.0},
	}
	return order, items
}

// ===================== CreateWithItems Tests =====================

func (s *OrderRepositoryTestSuite) TestCreateWithItems_Success() {
	ctx := context.Background()
	order, items := testOrderWithItems()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock_quantity"=stock_quantity - $1 WHERE id = $2 AND stock_quantity >= $3`)).
		WithArgs(2, items[0].ProductID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.CreateWithItems(ctx, order, items)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestCreateWithItems_InsufficientStock() {
	ctx := context.Background()
	order, items := testOrderWithItems()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Ноль затронутых строк: остатка не хватило, вся транзакция откатывается
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock_quantity"=stock_quantity - $1 WHERE id = $2 AND stock_quantity >= $3`)).
		WithArgs(2, items[0].ProductID, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.CreateWithItems(ctx, order, items)

	// Assert
	s.ErrorIs(err, ErrInsufficientStock)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestCreateWithItems_InsertFailureRollsBack() {
	ctx := context.Background()
	order, items := testOrderWithItems()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	// Act
	err := s.repo.CreateWithItems(ctx, order, items)

	// Assert
	s.Error(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByID Tests =====================

func (s *OrderRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	orderID := uuid.New()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "total_price", "status", "payment_status", "created_at"}).
		AddRow(orderID, userID, 60.0, "confirmed", "paid", time.Now())

	// First() передаёт LIMIT отдельным bind-параметром
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WithArgs(orderID, 1).
		WillReturnRows(rows)

	// Act
	order, err := s.repo.GetByID(ctx, orderID)

	// Assert
	s.NoError(err)
	s.NotNil(order)
	s.Equal(orderID, order.ID)
	s.Equal(userID, order.UserID)
	s.Equal(60.0, order.TotalPrice)
	s.Equal(entity.OrderStatusConfirmed, order.Status)
	s.Equal(entity.PaymentStatusPaid, order.PaymentStatus)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WithArgs(orderID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	order, err := s.repo.GetByID(ctx, orderID)

	// Assert
	s.ErrorIs(err, ErrOrderNotFound)
	s.Nil(order)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestGetByID_DBError() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WithArgs(orderID, 1).
		WillReturnError(sql.ErrConnDone)

	// Act
	order, err := s.repo.GetByID(ctx, orderID)

	// Assert
	s.Error(err)
	s.NotErrorIs(err, ErrOrderNotFound)
	s.Nil(order)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByUserID Tests =====================

func (s *OrderRepositoryTestSuite) TestGetByUserID_Success() {
	ctx := context.Background()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "total_price", "status", "payment_status", "created_at"}).
		AddRow(uuid.New(), userID, 60.0, "confirmed", "paid", time.Now()).
		AddRow(uuid.New(), userID, 25.0, "delivered", "paid", time.Now().Add(-time.Hour))

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(userID).
		WillReturnRows(rows)

	// Act
	orders, err := s.repo.GetByUserID(ctx, userID)

	// Assert
	s.NoError(err)
	s.Len(orders, 2)
	s.Equal(60.0, orders[0].TotalPrice)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestGetByUserID_NoOrders() {
	ctx := context.Background()
	userID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_price", "status", "payment_status", "created_at"}))

	// Act
	orders, err := s.repo.GetByUserID(ctx, userID)

	// Assert
	s.NoError(err)
	s.Empty(orders)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== UpdateStatus Tests =====================

func (s *OrderRepositoryTestSuite) TestUpdateStatus_Success() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1`)).
		WithArgs("shipped", orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.UpdateStatus(ctx, orderID, entity.OrderStatusShipped)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestUpdateStatus_NotFound() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1`)).
		WithArgs("shipped", orderID).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectCommit()

	// Act
	err := s.repo.UpdateStatus(ctx, orderID, entity.OrderStatusShipped)

	// Assert
	s.ErrorIs(err, ErrOrderNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== UpdatePaymentStatus Tests =====================

func (s *OrderRepositoryTestSuite) TestUpdatePaymentStatus_Success() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "payment_status"=$1`)).
		WithArgs("refunded", orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.UpdatePaymentStatus(ctx, orderID, entity.PaymentStatusRefunded)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestUpdatePaymentStatus_DBError() {
	ctx := context.Background()
	orderID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "payment_status"=$1`)).
		WithArgs("refunded", orderID).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	// Act
	err := s.repo.UpdatePaymentStatus(ctx, orderID, entity.PaymentStatusRefunded)

	// Assert
	s.Error(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== NewOrderRepository Tests =====================

func TestNewOrderRepository(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	// Act
	repo := NewOrderRepository(db)

	// Assert
	assert.NotNil(t, repo)
}
