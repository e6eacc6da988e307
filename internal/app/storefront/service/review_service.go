package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"willowmart/internal/app/storefront/entity"
	"willowmart/internal/app/storefront/repository"
	"willowmart/internal/app/storefront/util"
	"willowmart/pkg/logger"

	"github.com/google/uuid"
)

// ReviewService обрабатывает бизнес-логику отзывов
// Отзывы хранятся в MongoDB, агрегированный рейтинг денормализован в каталоге
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	productRepo   repository.ProductRepository
	kafkaProducer util.MessagePublisher
}

// NewReviewService создает новый сервис отзывов
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	kafkaProducer util.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает отзыв и пересчитывает рейтинг товара
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	now := time.Now()
	review := &entity.Review{
		ProductID: req.ProductID,
		UserID:    userID.String(),
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	// Пересчет рейтинга и отправка события не должны ронять создание отзыва
	if err := s.recalculateRating(ctx, productID); err != nil {
		logger.Warn().Err(err).Str("product_id", req.ProductID).
			Msg("failed to recalculate product rating")
	}

	event := entity.ReviewEvent{
		EventType: "REVIEW_CREATED",
		ReviewID:  review.ID.Hex(),
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: now,
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("review_id", review.ID.Hex()).
			Msg("failed to publish review event")
	}

	return review, nil
}

// GetProductReviews возвращает отзывы о товаре
func (s *ReviewService) GetProductReviews(ctx context.Context, productID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

// UpdateReview обновляет отзыв, разрешено только автору
func (s *ReviewService) UpdateReview(ctx context.Context, userID uuid.UUID, reviewID string, req *entity.UpdateReviewRequest) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if review.UserID != userID.String() {
		return nil, ErrUnauthorized
	}

	if req.Rating != 0 {
		review.Rating = req.Rating
	}
	if req.Text != "" {
		review.Text = req.Text
	}
	review.UpdatedAt = time.Now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if productID, err := uuid.Parse(review.ProductID); err == nil {
		if err := s.recalculateRating(ctx, productID); err != nil {
			logger.Warn().Err(err).Str("product_id", review.ProductID).
				Msg("failed to recalculate product rating")
		}
	}

	return review, nil
}

// DeleteReview удаляет отзыв, разрешено автору и администратору
func (s *ReviewService) DeleteReview(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.UserID != userID.String() && !isAdmin {
		return ErrUnauthorized
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if productID, err := uuid.Parse(review.ProductID); err == nil {
		if err := s.recalculateRating(ctx, productID); err != nil {
			logger.Warn().Err(err).Str("product_id", review.ProductID).
				Msg("failed to recalculate product rating")
		}
	}

	return nil
}

// recalculateRating пересчитывает средний рейтинг товара по всем отзывам
// и денормализует его в каталог для выдачи без похода в MongoDB
func (s *ReviewService) recalculateRating(ctx context.Context, productID uuid.UUID) error {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID.String())
	if err != nil {
		return fmt.Errorf("failed to get reviews: %w", err)
	}

	rating := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	if err := s.productRepo.UpdateRating(ctx, productID, rating, len(reviews)); err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	return nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
