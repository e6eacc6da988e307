package repository

import (
	"context"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository создает новый репозиторий избранного
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add добавляет товар в избранное
// Пара (user_id, product_id) уникальна, повторное добавление - no-op
func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(favorite)

	return result.Error
}

// Delete удаляет товар из избранного
func (r *favoriteRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&entity.Favorite{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

// GetByUser получает избранное пользователя вместе с товарами
func (r *favoriteRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	var favorites []entity.Favorite
	result := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites)

	if result.Error != nil {
		return nil, result.Error
	}

	return favorites, nil
}
