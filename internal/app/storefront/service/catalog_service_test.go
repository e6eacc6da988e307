package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"
	"willowmart/internal/app/storefront/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCategory() *entity.Category {
	return &entity.Category{
		ID:        uuid.New(),
		Name:      "Footwear",
		CreatedAt: time.Now(),
	}
}

func setupCatalogService() (*CatalogService, *mocks.MockCategoryRepository, *mocks.MockProductRepository, *mocks.MockRedisCache, *mocks.MockMessagePublisher) {
	categoryRepo := new(mocks.MockCategoryRepository)
	productRepo := new(mocks.MockProductRepository)
	redisCache := new(mocks.MockRedisCache)
	producer := new(mocks.MockMessagePublisher)

	svc := NewCatalogService(categoryRepo, productRepo, redisCache, producer)
	return svc, categoryRepo, productRepo, redisCache, producer
}

// ==================== Category Tests ====================

func TestCatalogService_CreateCategory_InvalidatesCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, redisCache, _ := setupCatalogService()

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	redisCache.On("DeleteCategories", ctx).Return(nil)

	req := &entity.CreateCategoryRequest{Name: "Footwear"}

	// Act
	category, err := svc.CreateCategory(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Footwear", category.Name)
	assert.NotEqual(t, uuid.Nil, category.ID)
	redisCache.AssertCalled(t, "DeleteCategories", ctx)
}

func TestCatalogService_CreateCategory_CacheErrorIgnored(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, _, redisCache, _ := setupCatalogService()

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	redisCache.On("DeleteCategories", ctx).Return(errors.New("redis down"))

	category, err := svc.CreateCategory(ctx, &entity.CreateCategoryRequest{Name: "Footwear"})

	// Категория создана, сбой кеша не роняет операцию
	require.NoError(t, err)
	assert.NotNil(t, category)
}

func TestCatalogService_GetAllCategories_CacheHit(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, _, redisCache, _ := setupCatalogService()

	cached := []entity.Category{*newTestCategory()}
	redisCache.On("GetCategories", ctx).Return(cached, nil)

	categories, err := svc.GetAllCategories(ctx)

	require.NoError(t, err)
	assert.Len(t, categories, 1)
	// При попадании в кеш БД не трогаем
	categoryRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestCatalogService_GetAllCategories_EmptyCachedListIsHit(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, _, redisCache, _ := setupCatalogService()

	// Пустой, но не nil список — валидное закешированное значение
	redisCache.On("GetCategories", ctx).Return([]entity.Category{}, nil)

	categories, err := svc.GetAllCategories(ctx)

	require.NoError(t, err)
	assert.Empty(t, categories)
	categoryRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestCatalogService_GetAllCategories_CacheMissLoadsAndCaches(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, _, redisCache, _ := setupCatalogService()

	redisCache.On("GetCategories", ctx).Return(nil, nil)
	fromDB := []entity.Category{*newTestCategory(), *newTestCategory()}
	categoryRepo.On("GetAll", ctx).Return(fromDB, nil)
	redisCache.On("SetCategories", ctx, fromDB, time.Hour).Return(nil)

	categories, err := svc.GetAllCategories(ctx)

	require.NoError(t, err)
	assert.Len(t, categories, 2)
	redisCache.AssertCalled(t, "SetCategories", ctx, fromDB, time.Hour)
}

func TestCatalogService_DeleteCategory_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, _, _, _ := setupCatalogService()

	id := uuid.New()
	categoryRepo.On("Delete", ctx, id).Return(repository.ErrCategoryNotFound)

	err := svc.DeleteCategory(ctx, id)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

// ==================== Product Tests ====================

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, productRepo, _, _ := setupCatalogService()

	category := newTestCategory()
	categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	req := &entity.CreateProductRequest{
		Name:          "Running Shoes",
		Price:         99.99,
		CategoryID:    &category.ID,
		StockQuantity: 10,
	}

	product, err := svc.CreateProduct(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Running Shoes", product.Name)
	assert.True(t, product.IsActive) // Активность по умолчанию
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	svc, categoryRepo, productRepo, _, _ := setupCatalogService()

	categoryID := uuid.New()
	categoryRepo.On("GetByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	req := &entity.CreateProductRequest{
		Name:       "Running Shoes",
		Price:      99.99,
		CategoryID: &categoryID,
	}

	product, err := svc.CreateProduct(ctx, req)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_GetProduct_InactiveHiddenFromCustomers(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo, _, _ := setupCatalogService()

	product := newActiveProduct(50.00)
	product.IsActive = false
	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)

	// Покупателю скрытый товар неотличим от несуществующего
	result, err := svc.GetProduct(ctx, product.ID, false)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrProductNotFound)

	// Администратор видит скрытые товары
	result, err = svc.GetProduct(ctx, product.ID, true)
	require.NoError(t, err)
	assert.Equal(t, product.ID, result.ID)
}

func TestCatalogService_GetAllProducts_VisibilityByRole(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo, _, _ := setupCatalogService()

	productRepo.On("GetAll", ctx, true).Return([]entity.Product{}, nil).Once()
	productRepo.On("GetAll", ctx, false).Return([]entity.Product{}, nil).Once()

	_, err := svc.GetAllProducts(ctx, false)
	require.NoError(t, err)

	_, err = svc.GetAllProducts(ctx, true)
	require.NoError(t, err)

	productRepo.AssertExpectations(t)
}

func TestCatalogService_UpdateProduct_PriceChangePublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo, _, producer := setupCatalogService()

	product := newActiveProduct(100.00)
	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	var payload []byte
	producer.On("PublishMessage", ctx, product.ID.String(), mock.Anything).
		Run(func(args mock.Arguments) {
			payload = args.Get(2).([]byte)
		}).
		Return(nil)

	newPrice := 79.99
	updated, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, 79.99, updated.Price)

	var event entity.ProductEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "PRODUCT_UPDATED", event.EventType)
	assert.Equal(t, 79.99, event.Price)
}

func TestCatalogService_UpdateProduct_NoEventWhenPriceUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo, _, producer := setupCatalogService()

	product := newActiveProduct(100.00)
	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	name := "Trail Shoes"
	_, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{Name: name})

	require.NoError(t, err)
	producer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateProduct_KafkaErrorIgnored(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo, _, producer := setupCatalogService()

	product := newActiveProduct(100.00)
	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable"))

	newPrice := 50.00
	updated, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{Price: &newPrice})

	// Товар обновлен, сбой события не критичен
	require.NoError(t, err)
	assert.Equal(t, 50.00, updated.Price)
}

func TestCatalogService_DeleteProduct_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, productRepo, _, producer := setupCatalogService()

	product := newActiveProduct(60.00)
	productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	productRepo.On("Delete", ctx, product.ID).Return(nil)

	var payload []byte
	producer.On("PublishMessage", ctx, product.ID.String(), mock.Anything).
		Run(func(args mock.Arguments) {
			payload = args.Get(2).([]byte)
		}).
		Return(nil)

	err := svc.DeleteProduct(ctx, product.ID)

	require.NoError(t, err)

	var event entity.ProductEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "PRODUCT_DELETED", event.EventType)
}
