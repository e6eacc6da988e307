package repository

import (
	"context"
	"errors"
	"time"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
	ErrReviewNotFound    = errors.New("review not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAll(ctx context.Context, onlyActive bool) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CartRepository interface {
	// Upsert перезаписывает quantity при конфликте (user_id, product_id)
	// и возвращает позицию с присоединенным снимком товара
	Upsert(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.CartItem, error)
	GetItem(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	ClearByUser(ctx context.Context, userID uuid.UUID) error
	// DeleteOlderThan удаляет брошенные корзины, используется фоновым процессом
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type OrderRepository interface {
	// CreateWithItems атомарно создает заказ, его позиции и списывает остатки.
	// Списание условное (stock_quantity >= quantity); при нехватке товара
	// возвращается ErrInsufficientStock и вся транзакция откатывается
	CreateWithItems(ctx context.Context, order *entity.Order, items []entity.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.OrderWithItems, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *entity.Favorite) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByProductID(ctx context.Context, productID string) ([]entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
}
