package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk/internal/model"
)

// LeadRepository defines lead persistence operations.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	Update(ctx context.Context, lead *model.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	List(ctx context.Context) ([]model.Lead, error)
	ListByAssignee(ctx context.Context, staffID uuid.UUID) ([]model.Lead, error)
	ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus) error
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create creates a new lead.
func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// Update updates an existing lead.
func (r *leadRepository) Update(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// FindByID finds a lead by ID.
func (r *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns all leads, newest first.
func (r *leadRepository) List(ctx context.Context) ([]model.Lead, error) {
	var leads []model.Lead
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// ListByAssignee returns leads assigned to one staff member.
func (r *leadRepository) ListByAssignee(ctx context.Context, staffID uuid.UUID) ([]model.Lead, error) {
	var leads []model.Lead
	if err := r.db.WithContext(ctx).
		Where("assigned_to = ?", staffID).
		Order("created_at DESC").
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// ListByBuilder returns leads against properties the builder owns.
func (r *leadRepository) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.Lead, error) {
	var leads []model.Lead
	if err := r.db.WithContext(ctx).
		Joins("JOIN properties ON properties.id = leads.property_id").
		Where("properties.builder_id = ?", builderID).
		Order("leads.created_at DESC").
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateStatus updates a lead's funnel status.
func (r *leadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus) error {
	return r.db.WithContext(ctx).Model(&model.Lead{}).
		Where("id = ?", id).
		Update("status", status).Error
}
