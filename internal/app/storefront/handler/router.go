package handler

import (
	"net/http"
	"time"

	"willowmart/pkg/logger"
	"willowmart/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers собирает все обработчики сервиса для настройки маршрутов
type Handlers struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Favorite *FavoriteHandler
	Review   *ReviewHandler
}

// SetupRoutes настраивает все маршруты Storefront Service с использованием Gin.
// Каталог публичный (админ через OptionalAuth видит скрытые товары),
// корзина, заказы, избранное и отзывы требуют аутентификации,
// управление каталогом и статусами заказов - только администратор
func SetupRoutes(h *Handlers, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("storefront"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint - публичный, без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "storefront",
		})
	})

	// Prometheus метрики
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		auth.POST("/logout", authMiddleware.Authenticate(), h.Auth.Logout)
		auth.GET("/me", authMiddleware.Authenticate(), h.Auth.Me)
	}

	// Публичный каталог: неактивные товары видны только администратору
	catalog := router.Group("/")
	catalog.Use(authMiddleware.OptionalAuth())
	{
		catalog.GET("/categories", h.Catalog.GetCategories)
		catalog.GET("/categories/:id", h.Catalog.GetCategory)
		catalog.GET("/products", h.Catalog.GetProducts)
		catalog.GET("/products/:id", h.Catalog.GetProduct)
		catalog.GET("/products/:id/reviews", h.Review.GetProductReviews)
	}

	// Корзина - только для аутентифицированных пользователей
	cart := router.Group("/cart")
	cart.Use(authMiddleware.Authenticate())
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:productId", h.Cart.UpdateItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
	}

	// Оформление заказа и история покупок
	orders := router.Group("/")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("/checkout", h.Order.Checkout)
		orders.GET("/orders", h.Order.GetUserOrders)
		orders.GET("/orders/:id", h.Order.GetOrder)
	}

	// Избранное
	favorites := router.Group("/favorites")
	favorites.Use(authMiddleware.Authenticate())
	{
		favorites.GET("", h.Favorite.GetFavorites)
		favorites.POST("", h.Favorite.AddFavorite)
		favorites.DELETE("/:productId", h.Favorite.RemoveFavorite)
	}

	// Отзывы: создание и правка - только автор (удаление также админ)
	reviews := router.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.POST("", h.Review.CreateReview)
		reviews.PATCH("/:id", h.Review.UpdateReview)
		reviews.DELETE("/:id", h.Review.DeleteReview)
	}

	// Администрирование каталога и заказов
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
	{
		admin.POST("/categories", h.Catalog.CreateCategory)
		admin.PATCH("/categories/:id", h.Catalog.UpdateCategory)
		admin.DELETE("/categories/:id", h.Catalog.DeleteCategory)

		admin.POST("/products", h.Catalog.CreateProduct)
		admin.PATCH("/products/:id", h.Catalog.UpdateProduct)
		admin.DELETE("/products/:id", h.Catalog.DeleteProduct)

		admin.PATCH("/orders/:id/status", h.Order.UpdateOrderStatus)
		admin.PATCH("/orders/:id/payment", h.Order.UpdatePaymentStatus)
	}

	return router
}
