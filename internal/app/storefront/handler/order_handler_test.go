package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"
	"willowmart/internal/app/storefront/repository/mocks"
	"willowmart/internal/app/storefront/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderHandler() (*OrderHandler, *mocks.MockCartRepository, *mocks.MockOrderRepository, *mocks.MockMessagePublisher) {
	cartRepo := new(mocks.MockCartRepository)
	orderRepo := new(mocks.MockOrderRepository)
	producer := new(mocks.MockMessagePublisher)

	orderService := service.NewOrderService(orderRepo)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, producer)
	return NewOrderHandler(orderService, checkoutService), cartRepo, orderRepo, producer
}

func checkoutBody() entity.CheckoutRequest {
	return entity.CheckoutRequest{
		Name:       "Анна Соколова",
		Email:      "anna@example.com",
		Street:     "Невский проспект, 12",
		City:       "Санкт-Петербург",
		PostalCode: "191186",
		Country:    "Россия",
	}
}

// ==================== Checkout Handler Tests ====================

func TestOrderHandler_Checkout_Success(t *testing.T) {
	// Arrange
	router := setupTestRouter()
	h, cartRepo, orderRepo, producer := setupOrderHandler()

	userID := uuid.New()
	product := testProduct(40.00, 10)
	cartRepo.On("GetByUser", mock.Anything, userID).Return([]entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: product.ID, Quantity: 2, Product: product},
	}, nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*entity.Order"), mock.AnythingOfType("[]entity.OrderItem")).Return(nil)
	cartRepo.On("ClearByUser", mock.Anything, userID).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	router.POST("/checkout", asUser(userID, false), h.Checkout)

	// Act
	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/checkout", checkoutBody())
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var order entity.OrderWithItems
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, 80.00, order.TotalPrice)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)
}

func TestOrderHandler_Checkout_EmptyCart(t *testing.T) {
	router := setupTestRouter()
	h, cartRepo, orderRepo, _ := setupOrderHandler()

	userID := uuid.New()
	cartRepo.On("GetByUser", mock.Anything, userID).Return([]entity.CartItem{}, nil)

	router.POST("/checkout", asUser(userID, false), h.Checkout)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/checkout", checkoutBody())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_Checkout_InsufficientStock(t *testing.T) {
	router := setupTestRouter()
	h, cartRepo, orderRepo, _ := setupOrderHandler()

	userID := uuid.New()
	product := testProduct(40.00, 1)
	cartRepo.On("GetByUser", mock.Anything, userID).Return([]entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: product.ID, Quantity: 5, Product: product},
	}, nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrInsufficientStock)

	router.POST("/checkout", asUser(userID, false), h.Checkout)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/checkout", checkoutBody())
	router.ServeHTTP(w, req)

	// Конфликт остатков - 409, корзина не очищается
	assert.Equal(t, http.StatusConflict, w.Code)
	cartRepo.AssertNotCalled(t, "ClearByUser", mock.Anything, mock.Anything)
}

func TestOrderHandler_Checkout_MissingAddressField(t *testing.T) {
	router := setupTestRouter()
	h, cartRepo, _, _ := setupOrderHandler()

	body := checkoutBody()
	body.City = ""

	router.POST("/checkout", asUser(uuid.New(), false), h.Checkout)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/checkout", body)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	cartRepo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
}

func TestOrderHandler_Checkout_TransactionFailure(t *testing.T) {
	router := setupTestRouter()
	h, cartRepo, orderRepo, _ := setupOrderHandler()

	userID := uuid.New()
	product := testProduct(40.00, 10)
	cartRepo.On("GetByUser", mock.Anything, userID).Return([]entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: product.ID, Quantity: 1, Product: product},
	}, nil)
	orderRepo.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	router.POST("/checkout", asUser(userID, false), h.Checkout)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/checkout", checkoutBody())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ==================== GetOrder Handler Tests ====================

func TestOrderHandler_GetOrder_Owner(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	userID := uuid.New()
	order := &entity.Order{ID: uuid.New(), UserID: userID, TotalPrice: 55.0, Status: entity.OrderStatusConfirmed}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	router.GET("/orders/:id", asUser(userID, false), h.GetOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got entity.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderHandler_GetOrder_ForeignOrderForbidden(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New()}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	router.GET("/orders/:id", asUser(uuid.New(), false), h.GetOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderHandler_GetOrder_AdminSeesForeignOrder(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New()}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	router.GET("/orders/:id", asUser(uuid.New(), true), h.GetOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	orderID := uuid.New()
	orderRepo.On("GetByID", mock.Anything, orderID).Return(nil, repository.ErrOrderNotFound)

	router.GET("/orders/:id", asUser(uuid.New(), false), h.GetOrder)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ==================== GetUserOrders Handler Tests ====================

func TestOrderHandler_GetUserOrders(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	userID := uuid.New()
	orderRepo.On("GetByUserID", mock.Anything, userID).Return([]entity.Order{
		{ID: uuid.New(), UserID: userID},
		{ID: uuid.New(), UserID: userID},
	}, nil)

	router.GET("/orders", asUser(userID, false), h.GetUserOrders)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.OrderListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Orders, 2)
}

// ==================== UpdateOrderStatus Handler Tests ====================

func TestOrderHandler_UpdateOrderStatus_Success(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderStatusConfirmed}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, order.ID, entity.OrderStatusShipped).Return(nil)

	router.PATCH("/admin/orders/:id/status", asUser(uuid.New(), true), h.UpdateOrderStatus)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPatch, "/admin/orders/"+order.ID.String()+"/status",
		entity.UpdateOrderStatusRequest{Status: entity.OrderStatusShipped})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_UpdateOrderStatus_InvalidTransition(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	// delivered - финальный статус
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderStatusDelivered}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	router.PATCH("/admin/orders/:id/status", asUser(uuid.New(), true), h.UpdateOrderStatus)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPatch, "/admin/orders/"+order.ID.String()+"/status",
		entity.UpdateOrderStatusRequest{Status: entity.OrderStatusPending})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_UpdateOrderStatus_UnknownStatusRejected(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	router.PATCH("/admin/orders/:id/status", asUser(uuid.New(), true), h.UpdateOrderStatus)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPatch, "/admin/orders/"+uuid.New().String()+"/status",
		map[string]string{"status": "teleported"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// ==================== UpdatePaymentStatus Handler Tests ====================

func TestOrderHandler_UpdatePaymentStatus_Success(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), PaymentStatus: entity.PaymentStatusPaid}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("UpdatePaymentStatus", mock.Anything, order.ID, entity.PaymentStatusRefunded).Return(nil)

	router.PATCH("/admin/orders/:id/payment", asUser(uuid.New(), true), h.UpdatePaymentStatus)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPatch, "/admin/orders/"+order.ID.String()+"/payment",
		entity.UpdatePaymentStatusRequest{PaymentStatus: entity.PaymentStatusRefunded})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderHandler_UpdatePaymentStatus_RefundedIsFinal(t *testing.T) {
	router := setupTestRouter()
	h, _, orderRepo, _ := setupOrderHandler()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), PaymentStatus: entity.PaymentStatusRefunded}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	router.PATCH("/admin/orders/:id/payment", asUser(uuid.New(), true), h.UpdatePaymentStatus)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPatch, "/admin/orders/"+order.ID.String()+"/payment",
		entity.UpdatePaymentStatusRequest{PaymentStatus: entity.PaymentStatusPending})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orderRepo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}
