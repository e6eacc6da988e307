package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"willowmart/internal/app/storefront/config"
	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/handler"
	"willowmart/internal/app/storefront/processor"
	"willowmart/internal/app/storefront/repository"
	"willowmart/internal/app/storefront/service"
	"willowmart/internal/app/storefront/util"
	"willowmart/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		logger.Init("storefront", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("storefront", cfg.Server.LogLevel)

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL (GORM) ===
	// GORM используется репозиториями каталога, корзины, заказов и избранного
	gormDB, err := connectGorm(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Successfully connected to PostgreSQL (gorm)")

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL (PGX POOL) ===
	// Репозитории учетных записей и профилей работают через pgx raw SQL
	pgxPool, err := connectPgxPool(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create pgx pool")
	}
	defer pgxPool.Close()
	logger.Info().Msg("Successfully connected to PostgreSQL (pgx)")

	if err := ensureAuthSchema(context.Background(), pgxPool); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure auth schema")
	}

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis хранит кеш категорий и refresh токены
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// MongoDB хранит отзывы о товарах
	mongoClient, err := connectMongo(context.Background(), cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to disconnect MongoDB")
		}
	}()
	logger.Info().Msg("Successfully connected to MongoDB")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCERS ===
	// order_events: ORDER_CREATED; product_events: PRODUCT_UPDATED, REVIEW_CREATED
	orderProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer orderProducer.Close()
	eventsProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
	defer eventsProducer.Close()
	logger.Info().Msg("Successfully initialized Kafka producers")

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	favoriteRepo := repository.NewFavoriteRepository(gormDB)
	userRepo := repository.NewUserRepository(pgxPool)
	profileRepo := repository.NewProfileRepository(pgxPool)
	tokenRepo := repository.NewRedisTokenRepository(redisClient.Client())
	reviewRepo := repository.NewReviewRepository(
		mongoClient.Database(cfg.Mongo.Database),
		cfg.Mongo.Collection,
	)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	jwtManager := util.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessDuration,
		cfg.JWT.RefreshDuration,
	)

	authService := service.NewAuthService(userRepo, profileRepo, tokenRepo, jwtManager)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, redisClient, eventsProducer)
	cartService := service.NewCartService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, orderProducer)
	orderService := service.NewOrderService(orderRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, eventsProducer)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS И МАРШРУТОВ ===
	authMiddleware := handler.NewAuthMiddleware(jwtManager)
	handlers := &handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(orderService, checkoutService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		Review:   handler.NewReviewHandler(reviewService),
	}
	router := handler.SetupRoutes(handlers, authMiddleware)

	// === ЗАПУСК ФОНОВОГО ОБСЛУЖИВАНИЯ ===
	// Планировщик зачищает брошенные корзины и строки, оставшиеся после
	// неудачной очистки корзины на финальном шаге оформления заказа
	scheduler := processor.NewCronScheduler(cartService, cfg.Worker.CartTTL)
	if err := scheduler.Start(context.Background(), cfg.Worker.CartSweepSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer scheduler.Stop()

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	// Production-ready настройки с таймаутами
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("Starting Storefront Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Storefront Service...")

	// Даем серверу 30 секунд на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Storefront Service stopped gracefully")
}

// connectGorm открывает GORM соединение с PostgreSQL и выполняет миграции
// Повторяет попытки подключения: при запуске в Docker база может быть еще не готова
func connectGorm(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		return nil, err
	}

	// Автомиграция таблиц каталога, корзины, заказов и избранного
	if err := db.AutoMigrate(
		&entity.Category{},
		&entity.Product{},
		&entity.CartItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Favorite{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// connectPgxPool создает pgx connection pool для репозиториев users/profiles
func connectPgxPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// ensureAuthSchema создает таблицы учетных записей и профилей, если их нет
// Таблицы каталога мигрирует GORM; users/profiles живут в pgx-слое
func ensureAuthSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(200) NOT NULL UNIQUE,
			password_hash VARCHAR(200) NOT NULL,
			name VARCHAR(100) NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			email VARCHAR(200) NOT NULL,
			display_name VARCHAR(100) NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// connectMongo подключается к MongoDB с проверкой соединения через ping
func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}

	return client, nil
}
