package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"
	"willowmart/pkg/logger"
	"willowmart/pkg/metrics"

	"github.com/google/uuid"
)

// CartService обрабатывает бизнес-логику корзины
// Корзина всегда синхронизируется с хранилищем до того, как результат
// отдается вызывающему: при ошибке хранилища состояние не меняется
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService создает новый сервис корзины
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart получает корзину пользователя со снимками товаров и агрегатами
// Для пользователя без корзины возвращается пустая корзина, не ошибка
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*entity.CartSummary, error) {
	items, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &entity.CartSummary{
		Items:      items,
		TotalPrice: CartTotal(items),
		ItemCount:  CartCount(items),
	}, nil
}

// AddItem добавляет товар в корзину через upsert
// Если пара (user, product) уже есть, количество ПЕРЕЗАПИСЫВАЕТСЯ новым
// значением, не прибавляется. Возвращает позицию со свежим снимком товара
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}

	if !product.IsActive {
		return nil, ErrProductInactive
	}

	item := &entity.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}

	saved, err := s.cartRepo.Upsert(ctx, item)
	if err != nil {
		metrics.RecordCartOperation("add", "error")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	metrics.RecordCartOperation("add", "success")
	return saved, nil
}

// UpdateQuantity меняет количество в позиции корзины
// Количество <= 0 эквивалентно удалению позиции
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		metrics.RecordCartOperation("update", "error")
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	metrics.RecordCartOperation("update", "success")
	return nil
}

// RemoveItem удаляет позицию из корзины
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
		metrics.RecordCartOperation("remove", "error")
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	metrics.RecordCartOperation("remove", "success")
	return nil
}

// ClearCart удаляет все позиции корзины пользователя
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		metrics.RecordCartOperation("clear", "error")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	metrics.RecordCartOperation("clear", "success")
	return nil
}

// SweepAbandonedCarts удаляет позиции корзин старше ttl
// Вызывается фоновым процессом; заодно дочищает строки, оставшиеся после
// неудачной очистки корзины на финальном шаге оформления заказа
func (s *CartService) SweepAbandonedCarts(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)

	deleted, err := s.cartRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep abandoned carts: %w", err)
	}

	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).
			Msg("abandoned cart rows swept")
	}

	return deleted, nil
}

// CartTotal возвращает сумму price * quantity по всем позициям,
// округленную до 2 знаков (валютная точность)
func CartTotal(items []entity.CartItem) float64 {
	var total float64
	for _, item := range items {
		if item.Product == nil {
			// Товар удален из каталога, позиция не участвует в сумме
			logger.Warn().Str("product_id", item.ProductID.String()).
				Msg("cart item references missing product")
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}

// CartCount возвращает суммарное количество единиц товара в корзине
func CartCount(items []entity.CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
