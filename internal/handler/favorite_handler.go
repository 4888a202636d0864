package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"estatedesk/internal/service"
)

// FavoriteHandler exposes a buyer's saved properties.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Add godoc
// @Summary Save a property
// @Tags favorites
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /favorites/{id} [post]
func (h *FavoriteHandler) Add(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	if err := h.favoriteService.Add(c.Request().Context(), principal(c), id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "property saved",
	})
}

// Remove godoc
// @Summary Remove a saved property
// @Tags favorites
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /favorites/{id} [delete]
func (h *FavoriteHandler) Remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	if err := h.favoriteService.Remove(c.Request().Context(), principal(c), id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "property removed",
	})
}

// List godoc
// @Summary List saved properties
// @Tags favorites
// @Produce json
// @Success 200 {array} model.Favorite
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	favorites, err := h.favoriteService.List(c.Request().Context(), principal(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, favorites)
}
