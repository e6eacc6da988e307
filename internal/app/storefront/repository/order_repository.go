package repository

import (
	"context"
	"errors"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems атомарно выполняет все записи оформления заказа:
// заказ, его позиции и условное списание остатков - в одной транзакции.
// Списание выполняется как UPDATE ... WHERE stock_quantity >= quantity,
// поэтому остаток не может уйти в минус даже при конкурентных checkout:
// из двух сессий, покупающих последнюю единицу, зафиксируется максимум одна.
// Любая ошибка откатывает транзакцию целиком - частичных записей не остается
func (r *orderRepository) CreateWithItems(ctx context.Context, order *entity.Order, items []entity.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}

		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		for _, item := range items {
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))

			if result.Error != nil {
				return result.Error
			}

			// Ноль затронутых строк: товара нет или остатка не хватает
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		return nil
	})
}

// GetByID получает заказ по ID
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// GetWithItems получает заказ с полным списком позиций
func (r *orderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.OrderWithItems, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &entity.OrderWithItems{
		Order: order,
		Items: order.Items,
	}, nil
}

// GetByUserID получает все заказы пользователя, новые первыми
func (r *orderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// UpdateStatus обновляет статус заказа
// Остальные поля заказа после создания позиций неизменяемы
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// UpdatePaymentStatus обновляет статус оплаты заказа
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", id).
		Update("payment_status", status)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
