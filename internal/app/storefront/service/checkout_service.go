package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"
	"willowmart/internal/app/storefront/util"
	"willowmart/pkg/logger"
	"willowmart/pkg/metrics"

	"github.com/google/uuid"
)

// CheckoutService выполняет оформление заказа - единственный
// многошаговый сценарий записи в системе.
//
// Последовательность зависимых записей (заказ -> позиции -> списание
// остатков) выполняется в одной транзакции PostgreSQL, поэтому при сбое
// любого шага частичных записей не остается. Списание остатков условное
// (stock_quantity >= quantity): остаток не может уйти в минус, из двух
// конкурентных покупок последней единицы фиксируется максимум одна.
// Очистка корзины выполняется ПОСЛЕ коммита: ее сбой не откатывает
// покупку, оставшиеся строки зачищает фоновый процесс
type CheckoutService struct {
	cartRepo      repository.CartRepository
	orderRepo     repository.OrderRepository
	kafkaProducer util.MessagePublisher
}

// NewCheckoutService создает новый сервис оформления заказа
func NewCheckoutService(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	kafkaProducer util.MessagePublisher,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:      cartRepo,
		orderRepo:     orderRepo,
		kafkaProducer: kafkaProducer,
	}
}

// Checkout оформляет заказ по текущей корзине пользователя.
// Предусловия: пользователь аутентифицирован (проверяется middleware),
// корзина непуста, адрес доставки прошел валидацию в handler.
// Пустая корзина отклоняется ДО каких-либо записей.
// Цена каждой позиции фиксируется из снимка товара в корзине на момент
// оформления - последующие изменения цен каталога заказ не меняют
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req *entity.CheckoutRequest) (*entity.OrderWithItems, error) {
	items, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		metrics.RecordCheckout("failed", 0)
		return nil, fmt.Errorf("%w: failed to load cart: %v", ErrCheckoutFailed, err)
	}

	if len(items) == 0 {
		metrics.RecordCheckout("empty_cart", 0)
		return nil, ErrEmptyCart
	}

	order := &entity.Order{
		ID:     uuid.New(),
		UserID: userID,
		// Обработка платежа вне рамок системы: заказ сразу
		// подтвержден и помечен оплаченным
		Status:        entity.OrderStatusConfirmed,
		PaymentStatus: entity.PaymentStatusPaid,
		Shipping: entity.ShippingAddress{
			Name:       req.Name,
			Email:      req.Email,
			Street:     req.Street,
			City:       req.City,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		},
		CreatedAt: time.Now(),
	}

	orderItems := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			metrics.RecordCheckout("failed", 0)
			return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, ErrProductNotFound)
		}

		orderItems = append(orderItems, entity.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price, // Цена на момент покупки
		})
	}

	// Инвариант: сумма заказа равна сумме (цена * количество) его позиций
	order.TotalPrice = CartTotal(items)

	if err := s.orderRepo.CreateWithItems(ctx, order, orderItems); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			metrics.RecordCheckout("insufficient_stock", 0)
			metrics.InsufficientStockTotal.Inc()
			return nil, ErrInsufficientStock
		}
		metrics.RecordCheckout("failed", 0)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	// Покупка зафиксирована. Сбой очистки корзины не откатывает заказ:
	// устаревшие строки корзины зачистит фоновый процесс
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID.String()).
			Msg("failed to clear cart after checkout, stale rows left for sweeper")
	}

	event := entity.OrderEvent{
		EventType:  "ORDER_CREATED",
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		Payment:    order.PaymentStatus,
		ItemsCount: len(orderItems),
		Timestamp:  time.Now(),
	}
	if err := s.publishOrderEvent(ctx, event); err != nil {
		// Заказ уже создан, проблемы с Kafka не критичны
		logger.Warn().Err(err).Str("order_id", order.ID.String()).
			Msg("failed to publish order created event")
	}

	metrics.RecordCheckout("success", order.TotalPrice)

	return &entity.OrderWithItems{
		Order: *order,
		Items: orderItems,
	}, nil
}

// publishOrderEvent отправляет событие о заказе в Kafka
// Key - OrderID для партиционирования
func (s *CheckoutService) publishOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.OrderID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
