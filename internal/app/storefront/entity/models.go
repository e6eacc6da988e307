package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User представляет учетную запись пользователя
// Хранится в таблице users, доступ через pgx (см. repository.UserRepository)
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile представляет публичный профиль пользователя
// Создается лениво при первом аутентифицированном обращении, если отсутствует
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category представляет категорию товаров
// При удалении категории ссылки товаров обнуляются (SET NULL, не CASCADE)
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// Product представляет товар в каталоге
type Product struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string     `json:"name" gorm:"type:varchar(200);not null"`
	Description   string     `json:"description" gorm:"type:text"`
	Price         float64    `json:"price" gorm:"type:decimal(10,2);not null;check:price >= 0"`
	CategoryID    *uuid.UUID `json:"category_id" gorm:"type:uuid"` // Необязательная ссылка на категорию
	Category      *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	ImageURL      string     `json:"image_url" gorm:"type:text"`
	StockQuantity int        `json:"stock_quantity" gorm:"not null;default:0;check:stock_quantity >= 0"`
	IsFeatured    bool       `json:"is_featured" gorm:"not null;default:false"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"` // Неактивные товары видны только админам
	Rating        float64    `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount   int        `json:"review_count" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// CartItem представляет позицию в корзине пользователя
// Пара (user_id, product_id) уникальна: повторный upsert перезаписывает количество
type CartItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// CartSummary содержит корзину с производными агрегатами
type CartSummary struct {
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"total_price"` // Сумма price * quantity по всем позициям
	ItemCount  int        `json:"item_count"`  // Сумма quantity по всем позициям
}

// OrderStatus представляет статусы заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Ожидает обработки
	OrderStatusConfirmed OrderStatus = "confirmed" // Подтвержден
	OrderStatusShipped   OrderStatus = "shipped"   // Отправлен
	OrderStatusDelivered OrderStatus = "delivered" // Доставлен
	OrderStatusCancelled OrderStatus = "cancelled" // Отменен
)

// PaymentStatus представляет статусы оплаты заказа
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ShippingAddress - адрес доставки, встраивается в заказ
type ShippingAddress struct {
	Name       string `json:"name" gorm:"column:shipping_name;type:varchar(200);not null"`
	Email      string `json:"email" gorm:"column:shipping_email;type:varchar(200);not null"`
	Street     string `json:"street" gorm:"column:shipping_street;type:varchar(300);not null"`
	City       string `json:"city" gorm:"column:shipping_city;type:varchar(100);not null"`
	PostalCode string `json:"postal_code" gorm:"column:shipping_postal_code;type:varchar(20);not null"`
	Country    string `json:"country" gorm:"column:shipping_country;type:varchar(100);not null"`
}

// Order представляет заказ в системе
// После создания позиций заказ неизменяем, кроме переходов статусов
type Order struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	TotalPrice    float64         `json:"total_price" gorm:"type:decimal(10,2);not null;check:total_price >= 0"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(50);not null;default:'pending'"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(50);not null;default:'pending'"`
	Shipping      ShippingAddress `json:"shipping" gorm:"embedded"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	Items         []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName указывает имя таблицы для GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem представляет позицию в заказе
// UnitPrice фиксируется на момент покупки и не меняется при смене цены в каталоге
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"` // Цена за единицу на момент покупки
}

// TableName указывает имя таблицы для GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderWithItems содержит заказ с полным списком позиций
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

// Favorite представляет товар в избранном пользователя
// Пара (user_id, product_id) уникальна
type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_product"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Favorite) TableName() string {
	return "favorites"
}

// Review представляет отзыв о товаре, хранится в MongoDB
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID string             `json:"product_id" bson:"product_id"` // UUID товара из каталога
	UserID    string             `json:"user_id" bson:"user_id"`
	Rating    int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// OrderEvent представляет событие о заказе для Kafka
type OrderEvent struct {
	EventType  string        `json:"event_type"` // ORDER_CREATED, ORDER_UPDATED
	OrderID    uuid.UUID     `json:"order_id"`
	UserID     uuid.UUID     `json:"user_id"`
	TotalPrice float64       `json:"total_price"`
	Status     OrderStatus   `json:"status"`
	Payment    PaymentStatus `json:"payment_status"`
	ItemsCount int           `json:"items_count"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ProductEvent представляет событие изменения товара для Kafka
type ProductEvent struct {
	EventType string    `json:"event_type"` // PRODUCT_UPDATED, PRODUCT_DELETED
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewEvent представляет событие о новом отзыве для Kafka
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
