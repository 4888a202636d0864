package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

// InquiryInput is a public lead submission.
type InquiryInput struct {
	PropertyID uuid.UUID
	Name       string
	Email      string
	Phone      string
	Message    string
	Source     string
}

// SiteVisitInput schedules a visit against a lead.
type SiteVisitInput struct {
	LeadID    uuid.UUID
	StaffID   uuid.UUID
	VisitDate time.Time
	Notes     string
}

// LeadService manages inquiries and site visits with role-scoped visibility.
type LeadService interface {
	CreateInquiry(ctx context.Context, input InquiryInput) (*model.Lead, error)
	List(ctx context.Context, p *auth.Principal) ([]model.Lead, error)
	UpdateStatus(ctx context.Context, p *auth.Principal, leadID uuid.UUID, status model.LeadStatus) error
	Assign(ctx context.Context, p *auth.Principal, leadID, staffID uuid.UUID) error
	CreateSiteVisit(ctx context.Context, p *auth.Principal, input SiteVisitInput) (*model.SiteVisit, error)
	ListSiteVisits(ctx context.Context, p *auth.Principal) ([]model.SiteVisit, error)
}

type leadService struct {
	repos *repository.Repositories
}

// NewLeadService creates a new lead service.
func NewLeadService(repos *repository.Repositories) LeadService {
	return &leadService{repos: repos}
}

// CreateInquiry records a public inquiry against an existing property. No
// session is required.
func (s *leadService) CreateInquiry(ctx context.Context, input InquiryInput) (*model.Lead, error) {
	if err := auth.Authorize(nil, auth.ActionLeadCreate, auth.Resource{}); err != nil {
		return nil, err
	}

	if _, err := s.repos.Properties.FindByID(ctx, input.PropertyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find property: %w", err)
	}

	lead := &model.Lead{
		PropertyID: input.PropertyID,
		Name:       input.Name,
		Email:      normalizeEmail(input.Email),
		Phone:      input.Phone,
		Message:    input.Message,
		Source:     input.Source,
		Status:     model.LeadStatusNew,
	}
	if err := s.repos.Leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// List returns leads scoped to the caller: staff see everything, builders see
// leads on their own properties, telecallers and sales executives see only
// leads assigned to them.
func (s *leadService) List(ctx context.Context, p *auth.Principal) ([]model.Lead, error) {
	if p == nil {
		return nil, errs.ErrUnauthorized
	}

	switch p.Role {
	case model.RoleAdmin, model.RoleSuperAdmin, model.RoleSaaSOwner:
		return s.repos.Leads.List(ctx)
	case model.RoleBuilder:
		if err := auth.Authorize(p, auth.ActionLeadRead, auth.Resource{OwnerID: p.ID}); err != nil {
			return nil, err
		}
		return s.repos.Leads.ListByBuilder(ctx, p.ID)
	case model.RoleTelecaller, model.RoleSalesExecutive:
		if err := auth.Authorize(p, auth.ActionLeadRead, auth.Resource{AssignedStaff: p.ID}); err != nil {
			return nil, err
		}
		return s.repos.Leads.ListByAssignee(ctx, p.ID)
	default:
		return nil, errs.ErrForbidden
	}
}

// UpdateStatus moves a lead through the funnel. Field staff can only touch
// leads assigned to them.
func (s *leadService) UpdateStatus(ctx context.Context, p *auth.Principal, leadID uuid.UUID, status model.LeadStatus) error {
	lead, err := s.findLead(ctx, leadID)
	if err != nil {
		return err
	}

	res := auth.Resource{}
	if lead.AssignedTo != nil {
		res.AssignedStaff = *lead.AssignedTo
	}
	if err := auth.Authorize(p, auth.ActionLeadUpdate, res); err != nil {
		return err
	}

	switch status {
	case model.LeadStatusNew, model.LeadStatusSiteVisitScheduled, model.LeadStatusInterested,
		model.LeadStatusNotInterested, model.LeadStatusClosed:
	default:
		return fmt.Errorf("%w: unknown lead status %q", errs.ErrValidation, status)
	}

	return s.repos.Leads.UpdateStatus(ctx, leadID, status)
}

// Assign hands a lead to a staff member; admins only.
func (s *leadService) Assign(ctx context.Context, p *auth.Principal, leadID, staffID uuid.UUID) error {
	if err := auth.Authorize(p, auth.ActionUserManage, auth.Resource{}); err != nil {
		return err
	}

	lead, err := s.findLead(ctx, leadID)
	if err != nil {
		return err
	}

	staff, err := s.repos.Users.FindByID(ctx, staffID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find staff: %w", err)
	}
	if !staff.Role.IsStaff() {
		return fmt.Errorf("%w: assignee must be a staff member", errs.ErrValidation)
	}

	lead.AssignedTo = &staff.ID
	return s.repos.Leads.Update(ctx, lead)
}

// CreateSiteVisit schedules a visit and flips the lead to
// site_visit_scheduled in the same transaction.
func (s *leadService) CreateSiteVisit(ctx context.Context, p *auth.Principal, input SiteVisitInput) (*model.SiteVisit, error) {
	if err := auth.Authorize(p, auth.ActionSiteVisitCreate, auth.Resource{}); err != nil {
		return nil, err
	}

	lead, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	staffID := input.StaffID
	if staffID == uuid.Nil {
		staffID = p.ID
	}

	visit := &model.SiteVisit{
		LeadID:     lead.ID,
		PropertyID: lead.PropertyID,
		StaffID:    staffID,
		VisitDate:  input.VisitDate,
		Status:     model.SiteVisitStatusScheduled,
		Notes:      input.Notes,
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.SiteVisits.Create(ctx, visit); err != nil {
			return fmt.Errorf("create site visit: %w", err)
		}
		return tx.Leads.UpdateStatus(ctx, lead.ID, model.LeadStatusSiteVisitScheduled)
	})
	if err != nil {
		return nil, err
	}

	return visit, nil
}

// ListSiteVisits returns visits scoped like leads: field staff see only their own.
func (s *leadService) ListSiteVisits(ctx context.Context, p *auth.Principal) ([]model.SiteVisit, error) {
	if p == nil {
		return nil, errs.ErrUnauthorized
	}

	switch p.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		return s.repos.SiteVisits.List(ctx)
	case model.RoleTelecaller, model.RoleSalesExecutive:
		if err := auth.Authorize(p, auth.ActionSiteVisitRead, auth.Resource{AssignedStaff: p.ID}); err != nil {
			return nil, err
		}
		return s.repos.SiteVisits.ListByStaff(ctx, p.ID)
	default:
		return nil, errs.ErrForbidden
	}
}

func (s *leadService) findLead(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.repos.Leads.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, nil
}
