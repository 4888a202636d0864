package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

// StaffInput provisions a staff account through the admin send-credentials flow.
type StaffInput struct {
	Name   string
	Email  string
	Mobile string
	Role   model.Role
}

// UserService covers profile self-service, OTP-gated sensitive changes and
// admin account management.
type UserService interface {
	Get(ctx context.Context, p *auth.Principal, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, p *auth.Principal) ([]model.User, error)
	UpdateProfile(ctx context.Context, p *auth.Principal, name, mobile string) error
	RequestEmailChangeOTP(ctx context.Context, p *auth.Principal, newEmail string) error
	ChangeEmail(ctx context.Context, p *auth.Principal, newEmail, code string) error
	RequestPasswordChangeOTP(ctx context.Context, p *auth.Principal) error
	ChangePassword(ctx context.Context, p *auth.Principal, code, newPassword string) error
	ToggleStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status string) error
	SendCredentials(ctx context.Context, p *auth.Principal, input StaffInput) (*model.User, error)
}

type userService struct {
	repos    *repository.Repositories
	otp      OTPService
	notifier NotificationService
}

// NewUserService creates a new user service.
func NewUserService(repos *repository.Repositories, otp OTPService, notifier NotificationService) UserService {
	return &userService{
		repos:    repos,
		otp:      otp,
		notifier: notifier,
	}
}

// Get returns a user record; admins only.
func (s *userService) Get(ctx context.Context, p *auth.Principal, id uuid.UUID) (*model.User, error) {
	if err := auth.Authorize(p, auth.ActionUserManage, auth.Resource{}); err != nil {
		return nil, err
	}
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// List returns all users; admins only.
func (s *userService) List(ctx context.Context, p *auth.Principal) ([]model.User, error) {
	if err := auth.Authorize(p, auth.ActionUserManage, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.repos.Users.List(ctx)
}

// UpdateProfile changes name and mobile directly; no OTP gate.
func (s *userService) UpdateProfile(ctx context.Context, p *auth.Principal, name, mobile string) error {
	if err := auth.Authorize(p, auth.ActionProfileSelf, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	user, err := s.repos.Users.FindByID(ctx, p.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if name != "" {
		user.Name = name
	}
	if mobile != "" {
		user.Mobile = mobile
	}
	return s.repos.Users.Update(ctx, user)
}

// RequestEmailChangeOTP sends a code to the new address to prove control of
// it. The dashboard profile surface is closed to buyers.
func (s *userService) RequestEmailChangeOTP(ctx context.Context, p *auth.Principal, newEmail string) error {
	if err := auth.Authorize(p, auth.ActionDashboardProfile, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	newEmail = normalizeEmail(newEmail)
	existing, err := s.repos.Users.FindByEmail(ctx, newEmail)
	if err == nil && existing != nil {
		return errs.ErrEmailExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check email: %w", err)
	}

	userID := p.ID
	pending := &model.PendingAccount{
		Email:   newEmail,
		Purpose: model.OTPPurposeEmailChange,
		UserID:  &userID,
	}
	return s.otp.Request(ctx, pending)
}

// ChangeEmail applies a verified email change atomically with the consume.
func (s *userService) ChangeEmail(ctx context.Context, p *auth.Principal, newEmail, code string) error {
	if err := auth.Authorize(p, auth.ActionDashboardProfile, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	newEmail = normalizeEmail(newEmail)
	pending, err := s.otp.Verify(ctx, newEmail, code)
	if err != nil {
		return err
	}
	if pending.Purpose != model.OTPPurposeEmailChange || pending.UserID == nil || *pending.UserID != p.ID {
		return errs.ErrInvalidOrExpiredOTP
	}

	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Users.UpdateEmail(ctx, p.ID, newEmail); err != nil {
			// Another account may have claimed the address between the OTP
			// request and the verify; the unique index is the arbiter.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.ErrEmailExists
			}
			return fmt.Errorf("update email: %w", err)
		}
		return s.otp.ConsumeTx(ctx, tx, newEmail)
	})
}

// RequestPasswordChangeOTP sends a code to the account's own address.
func (s *userService) RequestPasswordChangeOTP(ctx context.Context, p *auth.Principal) error {
	if err := auth.Authorize(p, auth.ActionDashboardProfile, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	userID := p.ID
	pending := &model.PendingAccount{
		Email:   normalizeEmail(p.Email),
		Purpose: model.OTPPurposePasswordChange,
		UserID:  &userID,
	}
	return s.otp.Request(ctx, pending)
}

// ChangePassword applies a verified password change atomically with the consume.
func (s *userService) ChangePassword(ctx context.Context, p *auth.Principal, code, newPassword string) error {
	if err := auth.Authorize(p, auth.ActionDashboardProfile, auth.Resource{OwnerID: p.ID}); err != nil {
		return err
	}

	email := normalizeEmail(p.Email)
	pending, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return err
	}
	if pending.Purpose != model.OTPPurposePasswordChange || pending.UserID == nil || *pending.UserID != p.ID {
		return errs.ErrInvalidOrExpiredOTP
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Users.UpdatePassword(ctx, p.ID, string(hashed)); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return s.otp.ConsumeTx(ctx, tx, email)
	})
}

// ToggleStatus enables or disables an account. The super admin identity is
// never a stored user, and stored SUPER_ADMIN rows cannot be altered either.
func (s *userService) ToggleStatus(ctx context.Context, p *auth.Principal, id uuid.UUID, status string) error {
	if err := auth.Authorize(p, auth.ActionUserManage, auth.Resource{}); err != nil {
		return err
	}

	target := model.UserStatus(status)
	if target != model.UserStatusActive && target != model.UserStatusDisabled {
		return fmt.Errorf("%w: status must be active or disabled", errs.ErrValidation)
	}

	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.Role == model.RoleSuperAdmin {
		return errs.ErrForbidden
	}

	return s.repos.Users.UpdateStatus(ctx, id, target)
}

// SendCredentials provisions a staff account with a generated password and
// security key and mails both to the new member.
func (s *userService) SendCredentials(ctx context.Context, p *auth.Principal, input StaffInput) (*model.User, error) {
	if err := auth.Authorize(p, auth.ActionUserManage, auth.Resource{}); err != nil {
		return nil, err
	}

	switch input.Role {
	case model.RoleAdmin, model.RoleTelecaller, model.RoleSalesExecutive:
	default:
		return nil, fmt.Errorf("%w: role must be ADMIN, TELECALLER or SALES_EXECUTIVE", errs.ErrValidation)
	}

	email := normalizeEmail(input.Email)
	existing, err := s.repos.Users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errs.ErrEmailExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	password, err := randomSecret(8)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	securityKey, err := randomSecret(16)
	if err != nil {
		return nil, fmt.Errorf("generate security key: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        email,
		Mobile:       input.Mobile,
		PasswordHash: string(hashed),
		Role:         input.Role,
		Status:       model.UserStatusActive,
		SecurityKey:  securityKey,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create staff user: %w", err)
	}

	if err := s.notifier.Record(ctx, &model.Notification{
		UserID:  user.ID,
		Type:    model.NotificationTypeCredentials,
		Title:   "Your staff account",
		Message: "Your account has been created. Credentials were sent by email.",
		Link:    "/dashboard",
	}); err != nil {
		zap.L().Warn("record credentials notification", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.notifier.Email(email, "Your EstateDesk credentials",
		fmt.Sprintf("<p>Hi %s,</p><p>Your %s account is ready.</p><p>Password: <strong>%s</strong><br>Security key: <strong>%s</strong></p><p>Please change your password after first login.</p>",
			input.Name, input.Role, password, securityKey))

	return user, nil
}

// randomSecret returns n random bytes hex-encoded.
func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
