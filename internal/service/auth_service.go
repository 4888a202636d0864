package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

const bcryptCost = 10

// SignupInput carries the profile data staged during registration. Role is
// restricted to the self-service roles; staff accounts are provisioned by an
// admin through the send-credentials flow.
type SignupInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
	Role     model.Role

	// Builder-only fields.
	PropertyType    string
	LookingTo       string
	ProjectName     string
	PropertyAddress string
}

// SuperAdminConfig holds the out-of-band configured super admin identity.
type SuperAdminConfig struct {
	Email       string
	Password    string
	SecurityKey string
}

// AuthService handles registration, login and password reset.
type AuthService interface {
	RequestSignupOTP(ctx context.Context, input SignupInput) error
	VerifySignup(ctx context.Context, email, code string) (*model.User, error)
	Login(ctx context.Context, email, password, securityKey string) (token string, principal *auth.Principal, err error)
	RequestPasswordResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type authService struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	otp        OTPService
	notifier   NotificationService
	superAdmin SuperAdminConfig
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	repos *repository.Repositories,
	jwtService *auth.JWTService,
	otp OTPService,
	notifier NotificationService,
	superAdmin SuperAdminConfig,
) AuthService {
	return &authService{
		repos:      repos,
		jwtService: jwtService,
		otp:        otp,
		notifier:   notifier,
		superAdmin: superAdmin,
	}
}

// normalizeEmail lower-cases and trims; the unique index operates on this form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestSignupOTP stages a registration. The request is rejected when the
// email is already registered; the OTP itself is the registration, so an
// unknown email proceeds.
func (s *authService) RequestSignupOTP(ctx context.Context, input SignupInput) error {
	email := normalizeEmail(input.Email)

	if input.Role != model.RoleBuyer && input.Role != model.RoleBuilder {
		return fmt.Errorf("%w: role must be BUYER or BUILDER", errs.ErrValidation)
	}

	existing, err := s.repos.Users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return errs.ErrEmailExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	pending := &model.PendingAccount{
		Email:           email,
		Name:            input.Name,
		Mobile:          input.Mobile,
		PasswordHash:    string(hashed),
		Role:            input.Role,
		Purpose:         model.OTPPurposeSignup,
		PropertyType:    input.PropertyType,
		LookingTo:       input.LookingTo,
		ProjectName:     input.ProjectName,
		PropertyAddress: input.PropertyAddress,
	}

	return s.otp.Request(ctx, pending)
}

// VerifySignup materializes the account. The user insert and the pending
// delete commit in one transaction; an existence check first makes the apply
// idempotent, so a code can never create two accounts.
func (s *authService) VerifySignup(ctx context.Context, email, code string) (*model.User, error) {
	email = normalizeEmail(email)

	pending, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if pending.Purpose != model.OTPPurposeSignup {
		return nil, errs.ErrInvalidOrExpiredOTP
	}

	user := &model.User{
		Name:            pending.Name,
		Email:           pending.Email,
		Mobile:          pending.Mobile,
		PasswordHash:    pending.PasswordHash,
		Role:            pending.Role,
		Status:          model.UserStatusActive,
		PropertyType:    pending.PropertyType,
		LookingTo:       pending.LookingTo,
		ProjectName:     pending.ProjectName,
		PropertyAddress: pending.PropertyAddress,
	}

	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		existing, err := tx.Users.FindByEmail(ctx, email)
		if err == nil && existing != nil {
			return errs.ErrEmailExists
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check user existence: %w", err)
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return s.otp.ConsumeTx(ctx, tx, email)
	})
	if err != nil {
		return nil, err
	}

	welcome := &model.Notification{
		UserID:  user.ID,
		Type:    model.NotificationTypeWelcome,
		Title:   "Welcome to EstateDesk",
		Message: fmt.Sprintf("Hi %s, your %s account is ready.", user.Name, strings.ToLower(string(user.Role))),
		Link:    "/dashboard",
	}
	if err := s.notifier.Record(ctx, welcome); err != nil {
		zap.L().Warn("record welcome notification", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.notifier.Email(user.Email, "Welcome to EstateDesk",
		fmt.Sprintf("<p>Hi %s, your account has been created.</p>", user.Name))

	return user, nil
}

// Login authenticates credentials and issues a session token. The super admin
// identity short-circuits the store entirely.
func (s *authService) Login(ctx context.Context, email, password, securityKey string) (string, *auth.Principal, error) {
	email = normalizeEmail(email)

	if s.superAdmin.Email != "" && email == normalizeEmail(s.superAdmin.Email) {
		if password != s.superAdmin.Password || securityKey != s.superAdmin.SecurityKey {
			return "", nil, errs.ErrInvalidCredentials
		}
		principal := &auth.Principal{
			Role:  model.RoleSuperAdmin,
			Name:  "Super Admin",
			Email: email,
		}
		token, err := s.jwtService.GenerateToken(principal)
		if err != nil {
			return "", nil, fmt.Errorf("generate token: %w", err)
		}
		return token, principal, nil
	}

	user, err := s.repos.Users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, errs.ErrInvalidCredentials
	}

	if user.Status == model.UserStatusDisabled {
		return "", nil, errs.ErrAccountBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errs.ErrInvalidCredentials
	}

	if user.Role.RequiresSecurityKey() && securityKey != user.SecurityKey {
		return "", nil, errs.ErrInvalidSecurityKey
	}

	principal := &auth.Principal{
		ID:     user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
		Mobile: user.Mobile,
	}
	token, err := s.jwtService.GenerateToken(principal)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, principal, nil
}

// RequestPasswordResetOTP stages a reset. Unlike signup, an unknown email is
// reported as NotFound.
func (s *authService) RequestPasswordResetOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repos.Users.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	pending := &model.PendingAccount{
		Email:   email,
		Purpose: model.OTPPurposePasswordReset,
		UserID:  &user.ID,
	}

	return s.otp.Request(ctx, pending)
}

// ResetPassword applies a verified reset: password update and pending delete
// commit together.
func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)

	pending, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return err
	}
	if pending.Purpose != model.OTPPurposePasswordReset || pending.UserID == nil {
		return errs.ErrInvalidOrExpiredOTP
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Users.UpdatePassword(ctx, *pending.UserID, string(hashed)); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return s.otp.ConsumeTx(ctx, tx, email)
	})
}
