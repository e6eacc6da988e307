package service

import (
	"context"
	"time"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
}

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID, isAdmin bool) (*entity.Product, error)
	GetAllProducts(ctx context.Context, isAdmin bool) ([]entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type CartServiceInterface interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*entity.CartSummary, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	SweepAbandonedCarts(ctx context.Context, ttl time.Duration) (int64, error)
}

type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *entity.CheckoutRequest) (*entity.OrderWithItems, error)
}

type OrderServiceInterface interface {
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*entity.OrderWithItems, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus entity.OrderStatus) (*entity.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, newStatus entity.PaymentStatus) (*entity.Order, error)
}

type FavoriteServiceInterface interface {
	AddFavorite(ctx context.Context, userID, productID uuid.UUID) (*entity.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID uuid.UUID) error
	GetFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetProductReviews(ctx context.Context, productID string) ([]entity.Review, error)
	UpdateReview(ctx context.Context, userID uuid.UUID, reviewID string, req *entity.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID string) error
}
