package service

import "errors"

var (
	// Аутентификация
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")

	// Каталог
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is not available")

	// Корзина
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")

	// Оформление и заказы
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrCheckoutFailed       = errors.New("checkout failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderStatus   = errors.New("invalid order status transition")
	ErrInvalidPaymentStatus = errors.New("invalid payment status transition")

	// Избранное и отзывы
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrReviewNotFound   = errors.New("review not found")

	// Доступ
	ErrUnauthorized = errors.New("access denied")
)
