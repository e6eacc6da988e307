package entity

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         Profile `json:"user"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type CreateProductRequest struct {
	Name          string     `json:"name" validate:"required,min=2,max=200"`
	Description   string     `json:"description" validate:"max=5000"`
	Price         float64    `json:"price" validate:"required,gte=0"`
	CategoryID    *uuid.UUID `json:"category_id" validate:"omitempty"`
	ImageURL      string     `json:"image_url" validate:"omitempty,url"`
	StockQuantity int        `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool       `json:"is_featured"`
	IsActive      *bool      `json:"is_active"`
}

type UpdateProductRequest struct {
	Name          string     `json:"name" validate:"omitempty,min=2,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=5000"`
	Price         *float64   `json:"price" validate:"omitempty,gte=0"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ImageURL      *string    `json:"image_url" validate:"omitempty,url"`
	StockQuantity *int       `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsFeatured    *bool      `json:"is_featured"`
	IsActive      *bool      `json:"is_active"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"` // <= 0 эквивалентно удалению позиции
}

// CheckoutRequest - данные формы оформления заказа
// Все поля адреса обязательны (предусловие Checkout)
type CheckoutRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Street     string `json:"street" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,oneof=pending paid failed refunded"`
}

type AddFavoriteRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Text      string `json:"text" validate:"max=5000"`
}

type UpdateReviewRequest struct {
	Rating int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Text   string `json:"text" validate:"omitempty,max=5000"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Featured []Product `json:"featured,omitempty"` // Заполняется только без активного фильтра
	Total    int       `json:"total"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}
