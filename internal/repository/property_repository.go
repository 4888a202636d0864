package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"estatedesk/internal/model"
)

// PropertyFilter narrows public catalogue queries. Nil/zero fields are ignored.
type PropertyFilter struct {
	Type        string
	ListingType model.ListingType
	Location    string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// PropertyRepository defines property persistence operations.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	Update(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListApproved(ctx context.Context, filter PropertyFilter) ([]model.Property, error)
	ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.Property, error)
	ListPending(ctx context.Context) ([]model.Property, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PropertyStatus) error
	SetFlag(ctx context.Context, id uuid.UUID, flag model.PropertyFlag, flaggedAt time.Time, flaggedBy uuid.UUID) error
	ClearFlag(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create creates a new property.
func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// Update persists all fields of a property in one row write.
func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// FindByID finds a property by ID.
func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// Delete soft-deletes a property.
func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Property{}).Error
}

// ListApproved returns approved listings matching the filter.
func (r *propertyRepository) ListApproved(ctx context.Context, filter PropertyFilter) ([]model.Property, error) {
	q := r.db.WithContext(ctx).Where("status = ?", model.PropertyStatusApproved)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.ListingType != "" {
		q = q.Where("listing_type = ?", filter.ListingType)
	}
	if filter.Location != "" {
		q = q.Where("location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", filter.MaxPrice)
	}

	var properties []model.Property
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// ListByBuilder returns all listings owned by a builder, any status.
func (r *propertyRepository) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.Property, error) {
	var properties []model.Property
	if err := r.db.WithContext(ctx).
		Where("builder_id = ?", builderID).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// ListPending returns the moderation queue.
func (r *propertyRepository) ListPending(ctx context.Context) ([]model.Property, error) {
	var properties []model.Property
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.PropertyStatusPending).
		Order("created_at ASC").
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// UpdateStatus transitions the moderation status in one row write.
func (r *propertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PropertyStatus) error {
	return r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SetFlag stamps the availability flag. The status guard keeps a flag from
// landing on a row that lost its approval concurrently.
func (r *propertyRepository) SetFlag(ctx context.Context, id uuid.UUID, flag model.PropertyFlag, flaggedAt time.Time, flaggedBy uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ? AND status = ?", id, model.PropertyStatusApproved).
		Updates(map[string]interface{}{
			"flag":       flag,
			"flagged_at": flaggedAt,
			"flagged_by": flaggedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearFlag nulls the flag and its audit stamps.
func (r *propertyRepository) ClearFlag(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"flag":       nil,
			"flagged_at": nil,
			"flagged_by": nil,
		}).Error
}

// IncrementViews adds one view atomically; concurrent increments never lose
// updates because the add happens in the database.
func (r *propertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
