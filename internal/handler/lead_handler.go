package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"estatedesk/internal/model"
	"estatedesk/internal/service"
)

// LeadHandler exposes inquiries and site visits.
type LeadHandler struct {
	leadService service.LeadService
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CreateInquiryRequest is a public inquiry against a listing.
type CreateInquiryRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Message    string `json:"message"`
	Source     string `json:"source"`
}

// UpdateLeadStatusRequest moves a lead through the funnel.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new site_visit_scheduled interested not_interested closed"`
}

// AssignLeadRequest hands a lead to a staff member.
type AssignLeadRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
}

// CreateSiteVisitRequest schedules a visit against a lead.
type CreateSiteVisitRequest struct {
	LeadID    string    `json:"lead_id" validate:"required,uuid"`
	StaffID   string    `json:"staff_id,omitempty" validate:"omitempty,uuid"`
	VisitDate time.Time `json:"visit_date" validate:"required"`
	Notes     string    `json:"notes"`
}

// CreateInquiry godoc
// @Summary Submit an inquiry on a listing
// @Tags leads
// @Accept json
// @Produce json
// @Param request body CreateInquiryRequest true "Inquiry"
// @Success 201 {object} model.Lead
// @Failure 404 {object} errors.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) CreateInquiry(c echo.Context) error {
	var req CreateInquiryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	lead, err := h.leadService.CreateInquiry(c.Request().Context(), service.InquiryInput{
		PropertyID: propertyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		Source:     req.Source,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, lead)
}

// List godoc
// @Summary List leads visible to the caller
// @Description Admins see all leads, builders see leads on their properties, field staff see assigned leads.
// @Tags leads
// @Produce json
// @Success 200 {array} model.Lead
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	leads, err := h.leadService.List(c.Request().Context(), principal(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, leads)
}

// UpdateStatus godoc
// @Summary Update a lead's funnel status
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadStatusRequest true "Target status"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}

	var req UpdateLeadStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.leadService.UpdateStatus(c.Request().Context(), principal(c), id, model.LeadStatus(req.Status)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "lead updated",
	})
}

// Assign godoc
// @Summary Assign a lead to a staff member
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body AssignLeadRequest true "Staff member"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/assign [patch]
func (h *LeadHandler) Assign(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}

	var req AssignLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid staff id")
	}

	if err := h.leadService.Assign(c.Request().Context(), principal(c), id, staffID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "lead assigned",
	})
}

// CreateSiteVisit godoc
// @Summary Schedule a site visit for a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param request body CreateSiteVisitRequest true "Visit details"
// @Success 201 {object} model.SiteVisit
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /site-visits [post]
func (h *LeadHandler) CreateSiteVisit(c echo.Context) error {
	var req CreateSiteVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}

	input := service.SiteVisitInput{
		LeadID:    leadID,
		VisitDate: req.VisitDate,
		Notes:     req.Notes,
	}
	if req.StaffID != "" {
		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid staff id")
		}
		input.StaffID = staffID
	}

	visit, err := h.leadService.CreateSiteVisit(c.Request().Context(), principal(c), input)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, visit)
}

// ListSiteVisits godoc
// @Summary List site visits visible to the caller
// @Tags leads
// @Produce json
// @Success 200 {array} model.SiteVisit
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /site-visits [get]
func (h *LeadHandler) ListSiteVisits(c echo.Context) error {
	visits, err := h.leadService.ListSiteVisits(c.Request().Context(), principal(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, visits)
}
