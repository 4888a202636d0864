package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
)

func newTestUserService(
	users *MockUserRepository,
	pending *MockPendingAccountRepository,
	notifier *fakeNotifier,
) UserService {
	repos := testRepos(users, pending, nil, nil, nil, nil, nil)
	otp := newTestOTPService(pending, notifier)
	return NewUserService(repos, otp, notifier)
}

func TestUserService_ToggleStatus(t *testing.T) {
	targetID := uuid.New()

	tests := []struct {
		name          string
		principal     *auth.Principal
		status        string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "admin disables a buyer",
			principal: adminPrincipal(),
			status:    "disabled",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID, Role: model.RoleBuyer}, nil)
				m.On("UpdateStatus", mock.Anything, targetID, model.UserStatusDisabled).Return(nil)
			},
		},
		{
			name:      "super admin rows are untouchable",
			principal: adminPrincipal(),
			status:    "disabled",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID, Role: model.RoleSuperAdmin}, nil)
			},
			expectedError: errs.ErrForbidden,
		},
		{
			name:          "status must be active or disabled",
			principal:     adminPrincipal(),
			status:        "suspended",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errs.ErrValidation,
		},
		{
			name:          "builder cannot manage accounts",
			principal:     builderPrincipal(uuid.New()),
			status:        "disabled",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errs.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockUsers)

			service := newTestUserService(mockUsers, new(MockPendingAccountRepository), &fakeNotifier{})
			err := service.ToggleStatus(context.Background(), tt.principal, targetID, tt.status)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestUserService_SendCredentials(t *testing.T) {
	t.Run("provisions a telecaller", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		notifier := &fakeNotifier{}

		mockUsers.On("FindByEmail", mock.Anything, "tele@example.com").Return(nil, gorm.ErrRecordNotFound)

		var created *model.User
		mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).Return(nil)

		service := newTestUserService(mockUsers, new(MockPendingAccountRepository), notifier)
		user, err := service.SendCredentials(context.Background(), adminPrincipal(), StaffInput{
			Name:   "Tele Caller",
			Email:  "Tele@Example.com",
			Mobile: "9000000006",
			Role:   model.RoleTelecaller,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RoleTelecaller, user.Role)
		assert.NotEmpty(t, created.PasswordHash)
		assert.NotEmpty(t, created.SecurityKey)
		assert.Equal(t, model.UserStatusActive, created.Status)
		assert.Equal(t, []string{"tele@example.com"}, notifier.emails)
		assert.Len(t, notifier.records, 1)
		assert.Equal(t, model.NotificationTypeCredentials, notifier.records[0].Type)
	})

	t.Run("buyer role is not staff", func(t *testing.T) {
		service := newTestUserService(new(MockUserRepository), new(MockPendingAccountRepository), &fakeNotifier{})
		_, err := service.SendCredentials(context.Background(), adminPrincipal(), StaffInput{
			Name:  "Nope",
			Email: "nope@example.com",
			Role:  model.RoleBuyer,
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("only admins provision staff", func(t *testing.T) {
		service := newTestUserService(new(MockUserRepository), new(MockPendingAccountRepository), &fakeNotifier{})
		_, err := service.SendCredentials(context.Background(), builderPrincipal(uuid.New()), StaffInput{
			Name:  "Nope",
			Email: "nope@example.com",
			Role:  model.RoleTelecaller,
		})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestUserService_ChangeEmail(t *testing.T) {
	userID := uuid.New()
	principal := &auth.Principal{ID: userID, Role: model.RoleBuilder, Email: "old@example.com"}

	t.Run("verified change applies atomically", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPending := new(MockPendingAccountRepository)

		mockPending.On("FindByEmail", mock.Anything, "new@example.com").Return(&model.PendingAccount{
			Email:     "new@example.com",
			Purpose:   model.OTPPurposeEmailChange,
			UserID:    &userID,
			OTP:       "123456",
			ExpiresAt: time.Now().Add(time.Minute),
		}, nil)
		mockUsers.On("UpdateEmail", mock.Anything, userID, "new@example.com").Return(nil)
		mockPending.On("Delete", mock.Anything, "new@example.com").Return(nil)

		service := newTestUserService(mockUsers, mockPending, &fakeNotifier{})
		err := service.ChangeEmail(context.Background(), principal, "new@example.com", "123456")

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
		mockPending.AssertExpectations(t)
	})

	t.Run("address claimed between request and verify", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPending := new(MockPendingAccountRepository)

		mockPending.On("FindByEmail", mock.Anything, "new@example.com").Return(&model.PendingAccount{
			Email:     "new@example.com",
			Purpose:   model.OTPPurposeEmailChange,
			UserID:    &userID,
			OTP:       "123456",
			ExpiresAt: time.Now().Add(time.Minute),
		}, nil)
		mockUsers.On("UpdateEmail", mock.Anything, userID, "new@example.com").Return(gorm.ErrDuplicatedKey)

		service := newTestUserService(mockUsers, mockPending, &fakeNotifier{})
		err := service.ChangeEmail(context.Background(), principal, "new@example.com", "123456")

		assert.ErrorIs(t, err, errs.ErrEmailExists)
		mockPending.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("someone else's code is rejected", func(t *testing.T) {
		otherID := uuid.New()
		mockUsers := new(MockUserRepository)
		mockPending := new(MockPendingAccountRepository)

		mockPending.On("FindByEmail", mock.Anything, "new@example.com").Return(&model.PendingAccount{
			Email:     "new@example.com",
			Purpose:   model.OTPPurposeEmailChange,
			UserID:    &otherID,
			OTP:       "123456",
			ExpiresAt: time.Now().Add(time.Minute),
		}, nil)

		service := newTestUserService(mockUsers, mockPending, &fakeNotifier{})
		err := service.ChangeEmail(context.Background(), principal, "new@example.com", "123456")

		assert.ErrorIs(t, err, errs.ErrInvalidOrExpiredOTP)
		mockUsers.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("buyers have no dashboard profile", func(t *testing.T) {
		buyer := &auth.Principal{ID: uuid.New(), Role: model.RoleBuyer}
		service := newTestUserService(new(MockUserRepository), new(MockPendingAccountRepository), &fakeNotifier{})

		err := service.RequestEmailChangeOTP(context.Background(), buyer, "new@example.com")
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}
