package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk/internal/model"
)

// SiteVisitRepository defines site visit persistence operations.
type SiteVisitRepository interface {
	Create(ctx context.Context, visit *model.SiteVisit) error
	Update(ctx context.Context, visit *model.SiteVisit) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SiteVisit, error)
	List(ctx context.Context) ([]model.SiteVisit, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]model.SiteVisit, error)
}

type siteVisitRepository struct {
	db *gorm.DB
}

// NewSiteVisitRepository creates a new site visit repository.
func NewSiteVisitRepository(db *gorm.DB) SiteVisitRepository {
	return &siteVisitRepository{db: db}
}

// Create creates a new site visit.
func (r *siteVisitRepository) Create(ctx context.Context, visit *model.SiteVisit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

// Update updates an existing site visit.
func (r *siteVisitRepository) Update(ctx context.Context, visit *model.SiteVisit) error {
	return r.db.WithContext(ctx).Save(visit).Error
}

// FindByID finds a site visit by ID.
func (r *siteVisitRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SiteVisit, error) {
	var visit model.SiteVisit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&visit).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// List returns all site visits, soonest first.
func (r *siteVisitRepository) List(ctx context.Context) ([]model.SiteVisit, error) {
	var visits []model.SiteVisit
	if err := r.db.WithContext(ctx).Order("visit_date ASC").Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// ListByStaff returns visits where the given user is the assigned staff.
func (r *siteVisitRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]model.SiteVisit, error) {
	var visits []model.SiteVisit
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("visit_date ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}
