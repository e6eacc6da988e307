package repository

import (
	"context"
	"errors"
	"fmt"

	"willowmart/internal/app/storefront/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository создает новый репозиторий профилей
func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &profileRepository{db: db}
}

// Create создает профиль пользователя
// Вызывается лениво сервисом аутентификации при первом обращении
func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (user_id, email, display_name, avatar_url, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.Exec(
		ctx, query,
		profile.UserID, profile.Email, profile.DisplayName, profile.AvatarURL, profile.IsAdmin, profile.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByUserID получает профиль пользователя
func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `SELECT user_id, email, display_name, avatar_url, is_admin, created_at FROM profiles WHERE user_id = $1`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Email,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.IsAdmin,
		&profile.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Update обновляет отображаемое имя и аватар профиля
func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	query := `UPDATE profiles SET display_name = $2, avatar_url = $3 WHERE user_id = $1`

	tag, err := r.db.Exec(ctx, query, profile.UserID, profile.DisplayName, profile.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}
