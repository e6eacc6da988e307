package repository

import (
	"context"
	"errors"
	"time"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository создает новый репозиторий корзины
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// Upsert добавляет позицию в корзину
// При конфликте (user_id, product_id) количество ПЕРЕЗАПИСЫВАЕТСЯ, не суммируется -
// это контракт синхронизации корзины и он должен сохраняться
func (r *cartRepository) Upsert(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(item)

	if result.Error != nil {
		return nil, result.Error
	}

	// Перечитываем строку со свежим снимком товара,
	// чтобы вернуть вызывающему актуальные цену и остаток
	return r.GetItem(ctx, item.UserID, item.ProductID)
}

// GetByUser получает все позиции корзины пользователя вместе с товарами
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.CartItem, error) {
	var items []entity.CartItem
	result := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items)

	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// GetItem получает одну позицию корзины с присоединенным товаром
func (r *cartRepository) GetItem(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error) {
	var item entity.CartItem
	result := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, result.Error
	}

	return &item, nil
}

// UpdateQuantity обновляет количество в существующей позиции
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Delete удаляет позицию из корзины
func (r *cartRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&entity.CartItem{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ClearByUser удаляет все позиции корзины пользователя
func (r *cartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.CartItem{})

	return result.Error
}

// DeleteOlderThan удаляет позиции корзин, созданные раньше cutoff
// Используется фоновым процессом для зачистки брошенных корзин и строк,
// оставшихся после неудачной очистки корзины на финальном шаге checkout
func (r *cartRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.CartItem{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
