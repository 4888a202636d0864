package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/service"
)

// UserHandler exposes profile self-service and admin account management.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest changes name and mobile; both optional.
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// EmailChangeRequest starts an OTP-gated email change.
type EmailChangeRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// VerifyEmailChangeRequest completes an email change.
type VerifyEmailChangeRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6"`
}

// VerifyPasswordChangeRequest completes an OTP-gated password change.
type VerifyPasswordChangeRequest struct {
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ToggleStatusRequest enables or disables an account.
type ToggleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active disabled"`
}

// SendCredentialsRequest provisions a staff account.
type SendCredentialsRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=ADMIN TELECALLER SALES_EXECUTIVE"`
}

// Me godoc
// @Summary Current session principal
// @Tags users
// @Produce json
// @Success 200 {object} auth.Principal
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return httpError(errs.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile godoc
// @Summary Update name and mobile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.userService.UpdateProfile(c.Request().Context(), principal(c), req.Name, req.Mobile); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "profile updated",
	})
}

// RequestEmailChange godoc
// @Summary Request an email change OTP
// @Description The code goes to the new address to prove control of it.
// @Tags users
// @Accept json
// @Produce json
// @Param request body EmailChangeRequest true "New email"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/email [post]
func (h *UserHandler) RequestEmailChange(c echo.Context) error {
	var req EmailChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.RequestEmailChangeOTP(c.Request().Context(), principal(c), req.NewEmail); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "verification code sent",
	})
}

// VerifyEmailChange godoc
// @Summary Verify the email change OTP
// @Tags users
// @Accept json
// @Produce json
// @Param request body VerifyEmailChangeRequest true "New email and OTP"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/email/verify [post]
func (h *UserHandler) VerifyEmailChange(c echo.Context) error {
	var req VerifyEmailChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangeEmail(c.Request().Context(), principal(c), req.NewEmail, req.OTP); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "email updated",
	})
}

// RequestPasswordChange godoc
// @Summary Request a password change OTP
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/password [post]
func (h *UserHandler) RequestPasswordChange(c echo.Context) error {
	if err := h.userService.RequestPasswordChangeOTP(c.Request().Context(), principal(c)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "verification code sent",
	})
}

// VerifyPasswordChange godoc
// @Summary Verify the password change OTP
// @Tags users
// @Accept json
// @Produce json
// @Param request body VerifyPasswordChangeRequest true "OTP and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/password/verify [post]
func (h *UserHandler) VerifyPasswordChange(c echo.Context) error {
	var req VerifyPasswordChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), principal(c), req.OTP, req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password updated",
	})
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), principal(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.userService.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ToggleStatus godoc
// @Summary Enable or disable an account
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body ToggleStatusRequest true "Target status"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/status [patch]
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req ToggleStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ToggleStatus(c.Request().Context(), principal(c), id, req.Status); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "status updated",
	})
}

// SendCredentials godoc
// @Summary Provision a staff account
// @Description Generates a password and security key and mails both to the new member.
// @Tags users
// @Accept json
// @Produce json
// @Param request body SendCredentialsRequest true "Staff details"
// @Success 201 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/credentials [post]
func (h *UserHandler) SendCredentials(c echo.Context) error {
	var req SendCredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.SendCredentials(c.Request().Context(), principal(c), service.StaffInput{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
		Role:   model.Role(req.Role),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}
