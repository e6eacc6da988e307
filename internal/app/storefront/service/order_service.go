package service

import (
	"context"
	"errors"
	"fmt"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"

	"github.com/google/uuid"
)

// OrderService обрабатывает бизнес-логику просмотра и сопровождения заказов
// Создание заказов выполняет CheckoutService; здесь заказ неизменяем,
// кроме переходов статуса и статуса оплаты
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService создает новый сервис заказов
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetOrder получает заказ с позициями
// Доступ только у владельца заказа или администратора
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*entity.OrderWithItems, error) {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != userID && !isAdmin {
		return nil, ErrUnauthorized
	}

	return order, nil
}

// GetUserOrders получает все заказы пользователя (история покупок)
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus обновляет статус заказа (только администратор)
// Допустимость перехода проверяется до записи
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !isValidStatusTransition(order.Status, newStatus) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = newStatus
	return order, nil
}

// UpdatePaymentStatus обновляет статус оплаты заказа (только администратор)
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, newStatus entity.PaymentStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !isValidPaymentTransition(order.PaymentStatus, newStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	order.PaymentStatus = newStatus
	return order, nil
}

// isValidStatusTransition проверяет допустимость смены статуса заказа
func isValidStatusTransition(from, to entity.OrderStatus) bool {
	validTransitions := map[entity.OrderStatus][]entity.OrderStatus{
		entity.OrderStatusPending: {
			entity.OrderStatusConfirmed,
			entity.OrderStatusCancelled,
		},
		entity.OrderStatusConfirmed: {
			entity.OrderStatusShipped,
			entity.OrderStatusCancelled,
		},
		entity.OrderStatusShipped: {
			entity.OrderStatusDelivered,
		},
		entity.OrderStatusDelivered: {}, // Финальный статус
		entity.OrderStatusCancelled: {}, // Финальный статус
	}

	allowedStatuses, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowedStatuses {
		if status == to {
			return true
		}
	}

	return false
}

// isValidPaymentTransition проверяет допустимость смены статуса оплаты
func isValidPaymentTransition(from, to entity.PaymentStatus) bool {
	validTransitions := map[entity.PaymentStatus][]entity.PaymentStatus{
		entity.PaymentStatusPending: {
			entity.PaymentStatusPaid,
			entity.PaymentStatusFailed,
		},
		entity.PaymentStatusPaid: {
			entity.PaymentStatusRefunded,
		},
		entity.PaymentStatusFailed: {
			entity.PaymentStatusPending,
		},
		entity.PaymentStatusRefunded: {}, // Финальный статус
	}

	allowedStatuses, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowedStatuses {
		if status == to {
			return true
		}
	}

	return false
}
