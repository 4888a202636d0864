package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"estatedesk/internal/model"
	"estatedesk/internal/repository"
	"estatedesk/internal/service"
)

// PropertyHandler exposes the listing lifecycle over HTTP.
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// CreatePropertyRequest is a new listing submission.
type CreatePropertyRequest struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	Price           string   `json:"price" validate:"required"`
	Area            float64  `json:"area" validate:"gte=0"`
	AreaUnit        string   `json:"area_unit"`
	Location        string   `json:"location" validate:"required"`
	Address         string   `json:"address"`
	Type            string   `json:"type" validate:"required"`
	Subtype         string   `json:"subtype"`
	ListingType     string   `json:"listing_type" validate:"required,oneof=sell rent lease"`
	Amenities       []string `json:"amenities"`
	Highlights      []string `json:"highlights"`
	Specifications  []string `json:"specifications"`
	Images          []string `json:"images"`
	Attachments     []string `json:"attachments"`
	NearbyLocations []string `json:"nearby_locations"`
}

// UpdatePropertyRequest is a partial listing edit.
type UpdatePropertyRequest struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Price           *string  `json:"price,omitempty"`
	Area            *float64 `json:"area,omitempty"`
	AreaUnit        *string  `json:"area_unit,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Type            *string  `json:"type,omitempty"`
	Subtype         *string  `json:"subtype,omitempty"`
	ListingType     *string  `json:"listing_type,omitempty" validate:"omitempty,oneof=sell rent lease"`
	Amenities       []string `json:"amenities,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
	Specifications  []string `json:"specifications,omitempty"`
	Images          []string `json:"images,omitempty"`
	Attachments     []string `json:"attachments,omitempty"`
	NearbyLocations []string `json:"nearby_locations,omitempty"`
}

// ModeratePropertyRequest sets the moderation verdict.
type ModeratePropertyRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// FlagPropertyRequest sets or clears the availability flag. A null flag clears it.
type FlagPropertyRequest struct {
	Flag *string `json:"flag" validate:"omitempty,oneof=sold rented leased"`
}

// Create godoc
// @Summary Submit a property listing
// @Tags properties
// @Accept json
// @Produce json
// @Param request body CreatePropertyRequest true "Listing data"
// @Success 201 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	input := service.PropertyInput{
		Title:           req.Title,
		Description:     req.Description,
		Price:           price,
		Area:            req.Area,
		AreaUnit:        req.AreaUnit,
		Location:        req.Location,
		Address:         req.Address,
		Type:            req.Type,
		Subtype:         req.Subtype,
		ListingType:     model.ListingType(req.ListingType),
		Amenities:       req.Amenities,
		Highlights:      req.Highlights,
		Specifications:  req.Specifications,
		Images:          req.Images,
		Attachments:     req.Attachments,
		NearbyLocations: req.NearbyLocations,
	}

	property, err := h.propertyService.Submit(c.Request().Context(), principal(c), input)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, property)
}

// Update godoc
// @Summary Edit a property listing
// @Description Builder edits of a moderated listing send it back to the review queue.
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body UpdatePropertyRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := service.PropertyPatch{
		Title:           req.Title,
		Description:     req.Description,
		Area:            req.Area,
		AreaUnit:        req.AreaUnit,
		Location:        req.Location,
		Address:         req.Address,
		Type:            req.Type,
		Subtype:         req.Subtype,
		Amenities:       req.Amenities,
		Highlights:      req.Highlights,
		Specifications:  req.Specifications,
		Images:          req.Images,
		Attachments:     req.Attachments,
		NearbyLocations: req.NearbyLocations,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		patch.Price = &price
	}
	if req.ListingType != nil {
		lt := model.ListingType(*req.ListingType)
		patch.ListingType = &lt
	}

	property, reapproval, err := h.propertyService.Edit(c.Request().Context(), principal(c), id, patch)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"property":            property,
		"reapproval_required": reapproval,
	})
}

// Moderate godoc
// @Summary Approve or reject a pending listing
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body ModeratePropertyRequest true "Verdict"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties/{id}/status [patch]
func (h *PropertyHandler) Moderate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	var req ModeratePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.propertyService.SetStatus(c.Request().Context(), principal(c), id, model.PropertyStatus(req.Status)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "status updated",
	})
}

// Flag godoc
// @Summary Set or clear the availability flag
// @Description Flags must match the listing type: sell/sold, rent/rented, lease/leased. Null clears the flag.
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body FlagPropertyRequest true "Flag value or null"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties/{id}/flag [patch]
func (h *PropertyHandler) Flag(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	var req FlagPropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var flag *model.PropertyFlag
	if req.Flag != nil {
		f := model.PropertyFlag(*req.Flag)
		flag = &f
	}

	if err := h.propertyService.SetFlag(c.Request().Context(), principal(c), id, flag); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "flag updated",
	})
}

// Delete godoc
// @Summary Delete a property listing
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	if err := h.propertyService.Delete(c.Request().Context(), principal(c), id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "property deleted",
	})
}

// Get godoc
// @Summary Get an approved listing
// @Description Each fetch counts one view.
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} model.Property
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	property, err := h.propertyService.GetPublic(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, property)
}

// List godoc
// @Summary Browse approved listings
// @Tags properties
// @Produce json
// @Param type query string false "Property type"
// @Param listing_type query string false "sell, rent or lease"
// @Param location query string false "Location substring"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Success 200 {array} model.Property
// @Router /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	filter := repository.PropertyFilter{
		Type:        c.QueryParam("type"),
		ListingType: model.ListingType(c.QueryParam("listing_type")),
		Location:    c.QueryParam("location"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		filter.MinPrice = &price
	}
	if v := c.QueryParam("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		filter.MaxPrice = &price
	}

	properties, err := h.propertyService.ListApproved(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, properties)
}

// ListMine godoc
// @Summary List the caller's own listings
// @Tags properties
// @Produce json
// @Success 200 {array} model.Property
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties/mine [get]
func (h *PropertyHandler) ListMine(c echo.Context) error {
	properties, err := h.propertyService.ListMine(c.Request().Context(), principal(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, properties)
}

// ListPending godoc
// @Summary List the moderation queue
// @Tags properties
// @Produce json
// @Success 200 {array} model.Property
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /properties/pending [get]
func (h *PropertyHandler) ListPending(c echo.Context) error {
	properties, err := h.propertyService.ListPending(c.Request().Context(), principal(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, properties)
}
