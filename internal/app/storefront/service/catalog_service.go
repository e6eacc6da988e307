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

	"github.com/google/uuid"
)

// CatalogService обрабатывает бизнес-логику каталога товаров
// Координирует работу репозиториев, Redis кеша и Kafka producer
type CatalogService struct {
	categoryRepo  repository.CategoryRepository
	productRepo   repository.ProductRepository
	redisCache    util.RedisCache
	kafkaProducer util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	redisCache util.RedisCache,
	kafkaProducer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		redisCache:    redisCache,
		kafkaProducer: kafkaProducer,
	}
}

// === CATEGORIES ===

// CreateCategory создает новую категорию и инвалидирует кеш
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	// Категория уже создана, проблемы с кешем не критичны
	if err := s.redisCache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}

	return category, nil
}

// GetCategory получает категорию по ID
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// GetAllCategories получает все категории с кешированием в Redis
// Сначала проверяет кеш, если нет - загружает из БД и кеширует на 1 час
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	// nil означает промах кеша; пустой список — валидное закешированное значение
	categories, err := s.redisCache.GetCategories(ctx)
	if err == nil && categories != nil {
		return categories, nil
	}

	categories, err = s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if err := s.redisCache.SetCategories(ctx, categories, time.Hour); err != nil {
		logger.Warn().Err(err).Msg("failed to cache categories")
	}

	return categories, nil
}

// UpdateCategory обновляет категорию и инвалидирует кеш
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.ImageURL != "" {
		category.ImageURL = req.ImageURL
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if err := s.redisCache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}

	return category, nil
}

// DeleteCategory удаляет категорию и инвалидирует кеш
// Товары категории не удаляются - их ссылка на категорию обнуляется
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := s.redisCache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}

	return nil
}

// === PRODUCTS ===

// CreateProduct создает новый товар
// Проверяет существование категории, если она указана
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &entity.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsActive:      isActive,
		CreatedAt:     time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct получает товар по ID с информацией о категории
// Неактивные товары отдаются только админам
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID, isAdmin bool) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if !product.IsActive && !isAdmin {
		return nil, ErrProductNotFound
	}

	return product, nil
}

// GetAllProducts получает все товары с информацией о категориях
// Покупатели видят только активные товары
func (s *CatalogService) GetAllProducts(ctx context.Context, isAdmin bool) ([]entity.Product, error) {
	products, err := s.productRepo.GetAll(ctx, !isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// UpdateProduct обновляет товар и отправляет событие PRODUCT_UPDATED при изменении цены
// Событие отправляется только при смене цены
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldPrice := product.Price

	// Обновляем только переданные поля (частичное обновление)
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		product.CategoryID = req.CategoryID
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if product.Price != oldPrice {
		event := entity.ProductEvent{
			EventType: "PRODUCT_UPDATED",
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Timestamp: time.Now(),
		}
		if err := s.publishProductEvent(ctx, event); err != nil {
			// Товар уже обновлен, проблемы с Kafka не критичны
			logger.Warn().Err(err).Str("product_id", product.ID.String()).
				Msg("failed to publish product updated event")
		}
	}

	return product, nil
}

// DeleteProduct удаляет товар
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	event := entity.ProductEvent{
		EventType: "PRODUCT_DELETED",
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Timestamp: time.Now(),
	}
	if err := s.publishProductEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("product_id", product.ID.String()).
			Msg("failed to publish product deleted event")
	}

	return nil
}

// publishProductEvent отправляет событие о товаре в Kafka
// Key - ProductID для партиционирования (сохраняет порядок событий одного товара)
func (s *CatalogService) publishProductEvent(ctx context.Context, event entity.ProductEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal product event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
