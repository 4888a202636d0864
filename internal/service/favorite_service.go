package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

// FavoriteService manages a buyer's saved properties.
type FavoriteService interface {
	Add(ctx context.Context, p *auth.Principal, propertyID uuid.UUID) error
	Remove(ctx context.Context, p *auth.Principal, propertyID uuid.UUID) error
	List(ctx context.Context, p *auth.Principal) ([]model.Favorite, error)
}

type favoriteService struct {
	repos *repository.Repositories
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(repos *repository.Repositories) FavoriteService {
	return &favoriteService{repos: repos}
}

// Add saves a property for the caller. Adding twice is a no-op.
func (s *favoriteService) Add(ctx context.Context, p *auth.Principal, propertyID uuid.UUID) error {
	if p == nil {
		return errs.ErrUnauthorized
	}
	if err := auth.Authorize(p, auth.ActionFavoriteManage, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	if _, err := s.repos.Properties.FindByID(ctx, propertyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find property: %w", err)
	}

	if _, err := s.repos.Favorites.Find(ctx, p.ID, propertyID); err == nil {
		return nil
	}

	favorite := &model.Favorite{
		UserID:     p.ID,
		PropertyID: propertyID,
	}
	if err := s.repos.Favorites.Create(ctx, favorite); err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

// Remove deletes the caller's favorite.
func (s *favoriteService) Remove(ctx context.Context, p *auth.Principal, propertyID uuid.UUID) error {
	if p == nil {
		return errs.ErrUnauthorized
	}
	if err := auth.Authorize(p, auth.ActionFavoriteManage, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	if err := s.repos.Favorites.Delete(ctx, p.ID, propertyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// List returns the caller's favorites.
func (s *favoriteService) List(ctx context.Context, p *auth.Principal) ([]model.Favorite, error) {
	if p == nil {
		return nil, errs.ErrUnauthorized
	}
	if err := auth.Authorize(p, auth.ActionFavoriteManage, auth.Resource{OwnerID: p.ID}); err != nil {
		return nil, err
	}
	return s.repos.Favorites.ListByUser(ctx, p.ID)
}
