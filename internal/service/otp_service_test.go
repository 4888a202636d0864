package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/rate"
)

func newTestOTPService(pending *MockPendingAccountRepository, notifier *fakeNotifier) OTPService {
	limiter := rate.NewLimiter(nil, 15*time.Minute, 5, time.Minute)
	return NewOTPService(pending, limiter, notifier, 5*time.Minute, 10*time.Minute)
}

func TestOTPService_Request(t *testing.T) {
	mockPending := new(MockPendingAccountRepository)
	notifier := &fakeNotifier{}
	service := newTestOTPService(mockPending, notifier)

	var staged *model.PendingAccount
	mockPending.On("Upsert", mock.Anything, mock.AnythingOfType("*model.PendingAccount")).
		Run(func(args mock.Arguments) {
			staged = args.Get(1).(*model.PendingAccount)
		}).Return(nil)

	pending := &model.PendingAccount{
		Email:   "buyer@example.com",
		Purpose: model.OTPPurposeSignup,
	}
	err := service.Request(context.Background(), pending)

	assert.NoError(t, err)
	assert.NotNil(t, staged)
	assert.Len(t, staged.OTP, 6)
	assert.True(t, staged.ExpiresAt.After(time.Now()))
	assert.True(t, staged.ExpiresAt.Before(time.Now().Add(6*time.Minute)))
	assert.Equal(t, []string{"buyer@example.com"}, notifier.emails)
	mockPending.AssertExpectations(t)
}

func TestOTPService_Request_DashboardTTL(t *testing.T) {
	mockPending := new(MockPendingAccountRepository)
	service := newTestOTPService(mockPending, &fakeNotifier{})

	var staged *model.PendingAccount
	mockPending.On("Upsert", mock.Anything, mock.AnythingOfType("*model.PendingAccount")).
		Run(func(args mock.Arguments) {
			staged = args.Get(1).(*model.PendingAccount)
		}).Return(nil)

	err := service.Request(context.Background(), &model.PendingAccount{
		Email:   "admin@example.com",
		Purpose: model.OTPPurposeDashboardProfile,
	})

	assert.NoError(t, err)
	assert.True(t, staged.ExpiresAt.After(time.Now().Add(9*time.Minute)))
}

func TestOTPService_Verify(t *testing.T) {
	email := "buyer@example.com"

	tests := []struct {
		name          string
		code          string
		setupMock     func(*MockPendingAccountRepository)
		expectedError error
	}{
		{
			name: "valid code",
			code: "123456",
			setupMock: func(m *MockPendingAccountRepository) {
				m.On("FindByEmail", mock.Anything, email).Return(&model.PendingAccount{
					Email:     email,
					OTP:       "123456",
					Purpose:   model.OTPPurposeSignup,
					ExpiresAt: time.Now().Add(time.Minute),
				}, nil)
			},
		},
		{
			name: "wrong code",
			code: "654321",
			setupMock: func(m *MockPendingAccountRepository) {
				m.On("FindByEmail", mock.Anything, email).Return(&model.PendingAccount{
					Email:     email,
					OTP:       "123456",
					ExpiresAt: time.Now().Add(time.Minute),
				}, nil)
			},
			expectedError: errs.ErrInvalidOrExpiredOTP,
		},
		{
			name: "expired code",
			code: "123456",
			setupMock: func(m *MockPendingAccountRepository) {
				m.On("FindByEmail", mock.Anything, email).Return(&model.PendingAccount{
					Email:     email,
					OTP:       "123456",
					ExpiresAt: time.Now().Add(-time.Second),
				}, nil)
			},
			expectedError: errs.ErrInvalidOrExpiredOTP,
		},
		{
			name: "no pending operation",
			code: "123456",
			setupMock: func(m *MockPendingAccountRepository) {
				m.On("FindByEmail", mock.Anything, email).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errs.ErrInvalidOrExpiredOTP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPending := new(MockPendingAccountRepository)
			tt.setupMock(mockPending)
			service := newTestOTPService(mockPending, &fakeNotifier{})

			pending, err := service.Verify(context.Background(), email, tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, pending)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, pending)
			}
			mockPending.AssertExpectations(t)
		})
	}
}

func TestOTPService_Consume(t *testing.T) {
	mockPending := new(MockPendingAccountRepository)
	mockPending.On("Delete", mock.Anything, "buyer@example.com").Return(nil)

	service := newTestOTPService(mockPending, &fakeNotifier{})
	err := service.Consume(context.Background(), "buyer@example.com")

	assert.NoError(t, err)
	mockPending.AssertExpectations(t)
}
