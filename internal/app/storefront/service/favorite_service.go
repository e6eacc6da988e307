package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"

	"github.com/google/uuid"
)

// FavoriteService обрабатывает бизнес-логику избранного
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

// NewFavoriteService создает новый сервис избранного
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

// AddFavorite добавляет товар в избранное пользователя
// Повторное добавление того же товара - no-op
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*entity.Favorite, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	favorite := &entity.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}

	if err := s.favoriteRepo.Add(ctx, favorite); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	favorite.Product = product
	return favorite, nil
}

// RemoveFavorite убирает товар из избранного
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.favoriteRepo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// GetFavorites возвращает избранные товары пользователя
func (s *FavoriteService) GetFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	favorites, err := s.favoriteRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	return favorites, nil
}
