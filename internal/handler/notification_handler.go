package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/service"
)

// NotificationHandler exposes the caller's notification feed.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Success 200 {array} model.Notification
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return httpError(errs.ErrUnauthorized)
	}

	notifications, err := h.notificationService.ListForUser(c.Request().Context(), p.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return httpError(errs.ErrUnauthorized)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), p.ID, id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "notification read",
	})
}

// MarkAllRead godoc
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return httpError(errs.ErrUnauthorized)
	}

	if err := h.notificationService.MarkAllRead(c.Request().Context(), p.ID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "notifications read",
	})
}
