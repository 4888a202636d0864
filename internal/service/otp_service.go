package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/metrics"
	"estatedesk/internal/model"
	"estatedesk/internal/rate"
	"estatedesk/internal/repository"
)

// OTPService is the verification engine behind every OTP-gated flow. It keeps
// at most one pending operation per email: a new request overwrites any prior
// unconsumed one.
type OTPService interface {
	// Request stages the pending record and queues code delivery. The staged
	// record's OTP and ExpiresAt fields are filled in here.
	Request(ctx context.Context, pending *model.PendingAccount) error
	// Verify succeeds iff a pending record exists, the code matches exactly
	// and it has not expired. Wrong code and expired code are deliberately
	// indistinguishable to the caller.
	Verify(ctx context.Context, email, code string) (*model.PendingAccount, error)
	// Consume deletes the pending record. Callers gate their effect and this
	// delete in one transaction via ConsumeTx.
	Consume(ctx context.Context, email string) error
	ConsumeTx(ctx context.Context, tx *repository.Repositories, email string) error
}

type otpService struct {
	pendingRepo  repository.PendingAccountRepository
	limiter      *rate.Limiter
	notifier     NotificationService
	ttl          time.Duration
	dashboardTTL time.Duration
}

// NewOTPService creates the OTP engine. ttl applies to signup, password reset
// and email/password change; dashboardTTL to dashboard profile flows.
func NewOTPService(
	pendingRepo repository.PendingAccountRepository,
	limiter *rate.Limiter,
	notifier NotificationService,
	ttl, dashboardTTL time.Duration,
) OTPService {
	return &otpService{
		pendingRepo:  pendingRepo,
		limiter:      limiter,
		notifier:     notifier,
		ttl:          ttl,
		dashboardTTL: dashboardTTL,
	}
}

// ttlFor returns the TTL policy for a purpose.
func (s *otpService) ttlFor(purpose model.OTPPurpose) time.Duration {
	if purpose == model.OTPPurposeDashboardProfile {
		return s.dashboardTTL
	}
	return s.ttl
}

// Request generates the code, upserts the pending record and queues delivery.
func (s *otpService) Request(ctx context.Context, pending *model.PendingAccount) error {
	if err := s.limiter.CanRequest(ctx, pending.Email, string(pending.Purpose)); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrValidation, err.Error())
	}

	code, err := randomCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	ttl := s.ttlFor(pending.Purpose)
	pending.OTP = code
	pending.ExpiresAt = time.Now().Add(ttl)

	if err := s.pendingRepo.Upsert(ctx, pending); err != nil {
		return fmt.Errorf("stage pending account: %w", err)
	}

	metrics.ObserveOTPRequest(string(pending.Purpose))

	s.notifier.Email(pending.Email, "Your verification code",
		fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It is valid for %d minutes.</p>",
			code, int(ttl.Minutes())))

	return nil
}

// Verify checks the submitted code against the staged record.
func (s *otpService) Verify(ctx context.Context, email, code string) (*model.PendingAccount, error) {
	pending, err := s.pendingRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.ErrInvalidOrExpiredOTP
		}
		return nil, fmt.Errorf("load pending account: %w", err)
	}

	// Exact string match, no normalization; expiry is always re-tested.
	if pending.OTP != code || !time.Now().Before(pending.ExpiresAt) {
		return nil, errs.ErrInvalidOrExpiredOTP
	}

	return pending, nil
}

// Consume deletes the pending record outside a transaction.
func (s *otpService) Consume(ctx context.Context, email string) error {
	return s.pendingRepo.Delete(ctx, email)
}

// ConsumeTx deletes the pending record inside the caller's transaction so the
// code is spent atomically with the effect it gates.
func (s *otpService) ConsumeTx(ctx context.Context, tx *repository.Repositories, email string) error {
	return tx.Pending.Delete(ctx, email)
}

// randomCode draws a 6-digit code uniformly from [100000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
