package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"estatedesk/internal/auth"
	"estatedesk/internal/cache"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/metrics"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

const (
	approvedListingsCacheKey = "properties:approved"
	approvedListingsCacheTTL = 2 * time.Minute
)

// PropertyInput is the payload for a new listing.
type PropertyInput struct {
	Title           string
	Description     string
	Price           decimal.Decimal
	Area            float64
	AreaUnit        string
	Location        string
	Address         string
	Type            string
	Subtype         string
	ListingType     model.ListingType
	Amenities       []string
	Highlights      []string
	Specifications  []string
	Images          []string
	Attachments     []string
	NearbyLocations []string
}

// PropertyPatch carries edit fields; nil pointers leave fields untouched.
type PropertyPatch struct {
	Title           *string
	Description     *string
	Price           *decimal.Decimal
	Area            *float64
	AreaUnit        *string
	Location        *string
	Address         *string
	Type            *string
	Subtype         *string
	ListingType     *model.ListingType
	Amenities       []string
	Highlights      []string
	Specifications  []string
	Images          []string
	Attachments     []string
	NearbyLocations []string
}

// PropertyService owns the listing lifecycle: the Pending/Approved/Rejected
// moderation machine and the post-approval availability flag machine.
type PropertyService interface {
	Submit(ctx context.Context, p *auth.Principal, input PropertyInput) (*model.Property, error)
	// Edit applies a patch. When the owning builder edits an approved or
	// rejected listing the status reopens to Pending and the returned bool
	// signals that re-approval is required.
	Edit(ctx context.Context, p *auth.Principal, id uuid.UUID, patch PropertyPatch) (*model.Property, bool, error)
	SetStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status model.PropertyStatus) error
	SetFlag(ctx context.Context, p *auth.Principal, id uuid.UUID, flag *model.PropertyFlag) error
	Delete(ctx context.Context, p *auth.Principal, id uuid.UUID) error
	GetPublic(ctx context.Context, id uuid.UUID) (*model.Property, error)
	ListApproved(ctx context.Context, filter repository.PropertyFilter) ([]model.Property, error)
	ListMine(ctx context.Context, p *auth.Principal) ([]model.Property, error)
	ListPending(ctx context.Context, p *auth.Principal) ([]model.Property, error)
}

type propertyService struct {
	repos    *repository.Repositories
	notifier NotificationService
	cache    *cache.Client
}

// NewPropertyService creates the lifecycle controller.
func NewPropertyService(repos *repository.Repositories, notifier NotificationService, cacheClient *cache.Client) PropertyService {
	return &propertyService{
		repos:    repos,
		notifier: notifier,
		cache:    cacheClient,
	}
}

// Submit creates a listing in Pending with no flag. No approval side effects.
func (s *propertyService) Submit(ctx context.Context, p *auth.Principal, input PropertyInput) (*model.Property, error) {
	if err := auth.Authorize(p, auth.ActionPropertyCreate, auth.Resource{}); err != nil {
		return nil, err
	}

	switch input.ListingType {
	case model.ListingTypeSell, model.ListingTypeRent, model.ListingTypeLease:
	default:
		return nil, fmt.Errorf("%w: listing type must be sell, rent or lease", errs.ErrValidation)
	}

	property := &model.Property{
		BuilderID:       p.ID,
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		Area:            input.Area,
		AreaUnit:        input.AreaUnit,
		Location:        input.Location,
		Address:         input.Address,
		Type:            input.Type,
		Subtype:         input.Subtype,
		ListingType:     input.ListingType,
		Status:          model.PropertyStatusPending,
		Amenities:       input.Amenities,
		Highlights:      input.Highlights,
		Specifications:  input.Specifications,
		Images:          input.Images,
		Attachments:     input.Attachments,
		NearbyLocations: input.NearbyLocations,
	}

	if err := s.repos.Properties.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	return property, nil
}

// Edit applies the patch in a single row write. A builder edit of an approved
// or rejected listing reopens moderation: the status reset persists atomically
// with the patched fields.
func (s *propertyService) Edit(ctx context.Context, p *auth.Principal, id uuid.UUID, patch PropertyPatch) (*model.Property, bool, error) {
	property, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if err := auth.Authorize(p, auth.ActionPropertyEdit, auth.Resource{OwnerID: property.BuilderID}); err != nil {
		return nil, false, err
	}

	applyPatch(property, patch)

	reapproval := false
	if p.Role == model.RoleBuilder && property.Status != model.PropertyStatusPending {
		property.Status = model.PropertyStatusPending
		// A reopened listing is available again; its flag no longer applies.
		property.Flag = nil
		property.FlaggedAt = nil
		property.FlaggedBy = nil
		reapproval = true
	}

	if err := s.repos.Properties.Update(ctx, property); err != nil {
		return nil, false, fmt.Errorf("update property: %w", err)
	}

	s.invalidateListings(ctx)
	return property, reapproval, nil
}

// SetStatus transitions moderation state. The notification row commits with
// the status write; mail goes out only after the commit.
func (s *propertyService) SetStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status model.PropertyStatus) error {
	if err := auth.Authorize(p, auth.ActionPropertyModerate, auth.Resource{}); err != nil {
		return err
	}

	if status != model.PropertyStatusApproved && status != model.PropertyStatusRejected {
		return fmt.Errorf("%w: status must be approved or rejected", errs.ErrValidation)
	}

	property, err := s.findProperty(ctx, id)
	if err != nil {
		return err
	}

	var notification *model.Notification
	if status == model.PropertyStatusApproved {
		notification = &model.Notification{
			UserID:  property.BuilderID,
			Type:    model.NotificationTypePropertyApproved,
			Title:   "Property approved",
			Message: fmt.Sprintf("Your property %q is now live.", property.Title),
			Link:    fmt.Sprintf("/properties/%s", property.ID),
		}
	} else {
		notification = &model.Notification{
			UserID:  property.BuilderID,
			Type:    model.NotificationTypePropertyRejected,
			Title:   "Property rejected",
			Message: fmt.Sprintf("Your property %q was not approved. Please review and resubmit.", property.Title),
			Link:    "/dashboard/properties",
		}
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		// Only approved listings may carry an availability flag; a rejection
		// verdict clears it with the status write.
		if status != model.PropertyStatusApproved && property.Flag != nil {
			if err := tx.Properties.ClearFlag(ctx, id); err != nil {
				return fmt.Errorf("clear flag: %w", err)
			}
		}
		if err := tx.Properties.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return tx.Notifications.Create(ctx, notification)
	})
	if err != nil {
		return err
	}

	metrics.ObservePropertyTransition(string(status))
	s.invalidateListings(ctx)
	s.emailBuilder(ctx, property.BuilderID, notification.Title, notification.Message)

	return nil
}

// SetFlag sets or clears the availability flag. Authorization is checked
// before flag/listing-type validation, so an unauthorized caller sees
// Forbidden even with a mismatched flag.
func (s *propertyService) SetFlag(ctx context.Context, p *auth.Principal, id uuid.UUID, flag *model.PropertyFlag) error {
	if err := auth.Authorize(p, auth.ActionPropertyModerate, auth.Resource{}); err != nil {
		return err
	}

	property, err := s.findProperty(ctx, id)
	if err != nil {
		return err
	}

	if flag == nil {
		if err := s.repos.Properties.ClearFlag(ctx, id); err != nil {
			return fmt.Errorf("clear flag: %w", err)
		}
		s.invalidateListings(ctx)
		return nil
	}

	if allowed := property.ListingType.AllowedFlag(); *flag != allowed {
		return fmt.Errorf("%w: listing type %s only allows flag %s", errs.ErrValidation, property.ListingType, allowed)
	}
	if property.Status != model.PropertyStatusApproved {
		return fmt.Errorf("%w: only approved properties can be flagged", errs.ErrValidation)
	}

	if err := s.repos.Properties.SetFlag(ctx, id, *flag, time.Now(), p.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			// Approval was withdrawn between the read and the guarded write.
			return fmt.Errorf("%w: only approved properties can be flagged", errs.ErrValidation)
		}
		return fmt.Errorf("set flag: %w", err)
	}

	s.invalidateListings(ctx)
	return nil
}

// Delete removes a listing. Builders cannot delete flagged listings; staff can
// delete regardless of flag state.
func (s *propertyService) Delete(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	property, err := s.findProperty(ctx, id)
	if err != nil {
		return err
	}

	res := auth.Resource{OwnerID: property.BuilderID, Flagged: property.Flag != nil}
	if err := auth.Authorize(p, auth.ActionPropertyDelete, res); err != nil {
		return err
	}

	if err := s.repos.Properties.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	s.invalidateListings(ctx)
	return nil
}

// GetPublic returns an approved listing and counts the view. The increment is
// a database-side add so concurrent viewers never lose updates.
func (s *propertyService) GetPublic(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	property, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.Status != model.PropertyStatusApproved {
		return nil, errs.ErrNotFound
	}

	if err := s.repos.Properties.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	property.Views++

	return property, nil
}

// ListApproved serves the public catalogue. The unfiltered list rides a short
// redis cache invalidated on every lifecycle mutation.
func (s *propertyService) ListApproved(ctx context.Context, filter repository.PropertyFilter) ([]model.Property, error) {
	cacheable := filter == (repository.PropertyFilter{})

	if cacheable {
		if data, _ := s.cache.Get(ctx, approvedListingsCacheKey); data != nil {
			var cached []model.Property
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	properties, err := s.repos.Properties.ListApproved(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list approved: %w", err)
	}

	if cacheable {
		if data, err := json.Marshal(properties); err == nil {
			_ = s.cache.Set(ctx, approvedListingsCacheKey, data, approvedListingsCacheTTL)
		}
	}

	return properties, nil
}

// ListMine returns the caller's own listings, any status.
func (s *propertyService) ListMine(ctx context.Context, p *auth.Principal) ([]model.Property, error) {
	if p == nil {
		return nil, errs.ErrUnauthorized
	}
	return s.repos.Properties.ListByBuilder(ctx, p.ID)
}

// ListPending returns the moderation queue for staff.
func (s *propertyService) ListPending(ctx context.Context, p *auth.Principal) ([]model.Property, error) {
	if err := auth.Authorize(p, auth.ActionPropertyModerate, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.repos.Properties.ListPending(ctx)
}

func (s *propertyService) findProperty(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	property, err := s.repos.Properties.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find property: %w", err)
	}
	return property, nil
}

func (s *propertyService) emailBuilder(ctx context.Context, builderID uuid.UUID, subject, message string) {
	builder, err := s.repos.Users.FindByID(ctx, builderID)
	if err != nil {
		return
	}
	s.notifier.Email(builder.Email, subject, fmt.Sprintf("<p>%s</p>", message))
}

func (s *propertyService) invalidateListings(ctx context.Context) {
	_ = s.cache.Delete(ctx, approvedListingsCacheKey)
}

func applyPatch(property *model.Property, patch PropertyPatch) {
	if patch.Title != nil {
		property.Title = *patch.Title
	}
	if patch.Description != nil {
		property.Description = *patch.Description
	}
	if patch.Price != nil {
		property.Price = *patch.Price
	}
	if patch.Area != nil {
		property.Area = *patch.Area
	}
	if patch.AreaUnit != nil {
		property.AreaUnit = *patch.AreaUnit
	}
	if patch.Location != nil {
		property.Location = *patch.Location
	}
	if patch.Address != nil {
		property.Address = *patch.Address
	}
	if patch.Type != nil {
		property.Type = *patch.Type
	}
	if patch.Subtype != nil {
		property.Subtype = *patch.Subtype
	}
	if patch.ListingType != nil {
		property.ListingType = *patch.ListingType
	}
	if patch.Amenities != nil {
		property.Amenities = patch.Amenities
	}
	if patch.Highlights != nil {
		property.Highlights = patch.Highlights
	}
	if patch.Specifications != nil {
		property.Specifications = patch.Specifications
	}
	if patch.Images != nil {
		property.Images = patch.Images
	}
	if patch.Attachments != nil {
		property.Attachments = patch.Attachments
	}
	if patch.NearbyLocations != nil {
		property.NearbyLocations = patch.NearbyLocations
	}
}
