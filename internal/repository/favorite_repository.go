package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk/internal/model"
)

// FavoriteRepository defines favorite persistence operations.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	Delete(ctx context.Context, userID, propertyID uuid.UUID) error
	Find(ctx context.Context, userID, propertyID uuid.UUID) (*model.Favorite, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Create creates a new favorite.
func (r *favoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

// Delete removes a user's favorite for a property.
func (r *favoriteRepository) Delete(ctx context.Context, userID, propertyID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Find returns the favorite row for (user, property).
func (r *favoriteRepository) Find(ctx context.Context, userID, propertyID uuid.UUID) (*model.Favorite, error) {
	var favorite model.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

// ListByUser returns a user's favorites with properties preloaded.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	var favorites []model.Favorite
	if err := r.db.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}
