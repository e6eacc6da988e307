package repository

import (
	"context"
	"errors"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	return result.Error
}

// GetByID получает товар по ID с информацией о категории
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetAll получает все товары с информацией о категориях
// При onlyActive=true неактивные товары исключаются (видимость для покупателей)
func (r *productRepository) GetAll(ctx context.Context, onlyActive bool) ([]entity.Product, error) {
	var products []entity.Product

	query := r.db.WithContext(ctx).Preload("Category").Order("created_at DESC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	result := query.Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Update обновляет товар
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(product).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":           product.Name,
		"description":    product.Description,
		"price":          product.Price,
		"category_id":    product.CategoryID,
		"image_url":      product.ImageURL,
		"stock_quantity": product.StockQuantity,
		"is_featured":    product.IsFeatured,
		"is_active":      product.IsActive,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateRating обновляет агрегаты рейтинга товара
// Вызывается сервисом отзывов после создания нового отзыва
func (r *productRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":       rating,
		"review_count": reviewCount,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
