package processor

import (
	"context"
	"time"

	"willowmart/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CartSweeper - часть CartService, нужная фоновому обслуживанию
type CartSweeper interface {
	SweepAbandonedCarts(ctx context.Context, ttl time.Duration) (int64, error)
}

// CronScheduler периодически зачищает брошенные корзины.
// Тот же процесс добирает строки корзины, которые не удалось удалить
// на финальном шаге оформления заказа: их сбой не фатален для покупки,
// но строки не должны жить вечно
type CronScheduler struct {
	cron    *cron.Cron
	cartSvc CartSweeper
	cartTTL time.Duration
}

// NewCronScheduler создает новый планировщик фоновых задач
func NewCronScheduler(cartSvc CartSweeper, cartTTL time.Duration) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(),
		cartSvc: cartSvc,
		cartTTL: cartTTL,
	}
}

// Start регистрирует задачу по расписанию и запускает планировщик.
// Первая зачистка выполняется сразу при старте
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Dur("cart_ttl", s.cartTTL).
		Msg("starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.cartSvc.SweepAbandonedCarts(ctx, s.cartTTL); err != nil {
			logger.Error().Err(err).Msg("abandoned cart sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	if _, err := s.cartSvc.SweepAbandonedCarts(ctx, s.cartTTL); err != nil {
		logger.Warn().Err(err).Msg("initial abandoned cart sweep failed")
	}

	return nil
}

// Stop останавливает планировщик, дожидаясь завершения текущих задач
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("cron scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
