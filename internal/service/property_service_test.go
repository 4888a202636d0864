package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"estatedesk/internal/auth"
	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

func builderPrincipal(id uuid.UUID) *auth.Principal {
	return &auth.Principal{ID: id, Role: model.RoleBuilder, Name: "Builder", Email: "builder@example.com"}
}

func adminPrincipal() *auth.Principal {
	return &auth.Principal{ID: uuid.New(), Role: model.RoleAdmin, Name: "Admin", Email: "admin@example.com"}
}

func newTestPropertyService(
	users *MockUserRepository,
	properties *MockPropertyRepository,
	notifications *MockNotificationRepository,
	notifier *fakeNotifier,
) PropertyService {
	repos := testRepos(users, nil, properties, nil, nil, notifications, nil)
	return NewPropertyService(repos, notifier, nil)
}

func TestPropertyService_Submit(t *testing.T) {
	builderID := uuid.New()

	t.Run("new listing starts pending", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("Create", mock.Anything, mock.AnythingOfType("*model.Property")).Return(nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		property, err := service.Submit(context.Background(), builderPrincipal(builderID), PropertyInput{
			Title:       "Lakeview 2BHK",
			Price:       decimal.NewFromInt(4500000),
			Location:    "Demo City",
			Type:        "residential",
			ListingType: model.ListingTypeSell,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.PropertyStatusPending, property.Status)
		assert.Nil(t, property.Flag)
		assert.Equal(t, builderID, property.BuilderID)
		mockProperties.AssertExpectations(t)
	})

	t.Run("buyer cannot submit", func(t *testing.T) {
		service := newTestPropertyService(new(MockUserRepository), new(MockPropertyRepository), new(MockNotificationRepository), &fakeNotifier{})
		buyer := &auth.Principal{ID: uuid.New(), Role: model.RoleBuyer}

		_, err := service.Submit(context.Background(), buyer, PropertyInput{
			Title:       "Nope",
			ListingType: model.ListingTypeSell,
		})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown listing type", func(t *testing.T) {
		service := newTestPropertyService(new(MockUserRepository), new(MockPropertyRepository), new(MockNotificationRepository), &fakeNotifier{})

		_, err := service.Submit(context.Background(), builderPrincipal(builderID), PropertyInput{
			Title:       "Bad",
			ListingType: model.ListingType("swap"),
		})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestPropertyService_Edit_ReopensModeration(t *testing.T) {
	builderID := uuid.New()
	propertyID := uuid.New()
	flag := model.PropertyFlagSold
	now := time.Now()

	mockProperties := new(MockPropertyRepository)
	mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
		ID:          propertyID,
		BuilderID:   builderID,
		Title:       "Lakeview 2BHK",
		Status:      model.PropertyStatusApproved,
		ListingType: model.ListingTypeSell,
		Flag:        &flag,
		FlaggedAt:   &now,
	}, nil)

	var saved *model.Property
	mockProperties.On("Update", mock.Anything, mock.AnythingOfType("*model.Property")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.Property)
		}).Return(nil)

	service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})

	newTitle := "Lakeview 2BHK (renovated)"
	property, reapproval, err := service.Edit(context.Background(), builderPrincipal(builderID), propertyID, PropertyPatch{Title: &newTitle})

	assert.NoError(t, err)
	assert.True(t, reapproval)
	assert.Equal(t, model.PropertyStatusPending, property.Status)
	assert.Nil(t, saved.Flag)
	assert.Nil(t, saved.FlaggedAt)
	assert.Equal(t, newTitle, saved.Title)
	mockProperties.AssertExpectations(t)
}

func TestPropertyService_Edit_OtherBuilderForbidden(t *testing.T) {
	propertyID := uuid.New()

	mockProperties := new(MockPropertyRepository)
	mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
		ID:        propertyID,
		BuilderID: uuid.New(),
		Status:    model.PropertyStatusApproved,
	}, nil)

	service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})

	_, _, err := service.Edit(context.Background(), builderPrincipal(uuid.New()), propertyID, PropertyPatch{})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	mockProperties.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPropertyService_SetStatus_Approve(t *testing.T) {
	builderID := uuid.New()
	propertyID := uuid.New()

	mockUsers := new(MockUserRepository)
	mockProperties := new(MockPropertyRepository)
	mockNotifications := new(MockNotificationRepository)
	notifier := &fakeNotifier{}

	mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
		ID:        propertyID,
		BuilderID: builderID,
		Title:     "Lakeview 2BHK",
		Status:    model.PropertyStatusPending,
	}, nil)
	mockProperties.On("UpdateStatus", mock.Anything, propertyID, model.PropertyStatusApproved).Return(nil)

	var notification *model.Notification
	mockNotifications.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).
		Run(func(args mock.Arguments) {
			notification = args.Get(1).(*model.Notification)
		}).Return(nil)
	mockUsers.On("FindByID", mock.Anything, builderID).Return(&model.User{ID: builderID, Email: "builder@example.com"}, nil)

	service := newTestPropertyService(mockUsers, mockProperties, mockNotifications, notifier)
	err := service.SetStatus(context.Background(), adminPrincipal(), propertyID, model.PropertyStatusApproved)

	assert.NoError(t, err)
	assert.Equal(t, model.NotificationTypePropertyApproved, notification.Type)
	assert.Equal(t, builderID, notification.UserID)
	assert.Equal(t, "/properties/"+propertyID.String(), notification.Link)
	assert.Equal(t, []string{"builder@example.com"}, notifier.emails)
	mockProperties.AssertExpectations(t)
	mockNotifications.AssertExpectations(t)
}

func TestPropertyService_SetStatus_RejectClearsFlag(t *testing.T) {
	builderID := uuid.New()
	propertyID := uuid.New()
	adminID := uuid.New()
	now := time.Now()
	flag := model.PropertyFlagSold

	t.Run("rejecting a flagged listing clears the flag", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockProperties := new(MockPropertyRepository)
		mockNotifications := new(MockNotificationRepository)

		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:          propertyID,
			BuilderID:   builderID,
			Title:       "Lakeview 2BHK",
			Status:      model.PropertyStatusApproved,
			ListingType: model.ListingTypeSell,
			Flag:        &flag,
			FlaggedAt:   &now,
			FlaggedBy:   &adminID,
		}, nil)
		mockProperties.On("ClearFlag", mock.Anything, propertyID).Return(nil)
		mockProperties.On("UpdateStatus", mock.Anything, propertyID, model.PropertyStatusRejected).Return(nil)
		mockNotifications.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)
		mockUsers.On("FindByID", mock.Anything, builderID).Return(&model.User{ID: builderID, Email: "builder@example.com"}, nil)

		service := newTestPropertyService(mockUsers, mockProperties, mockNotifications, &fakeNotifier{})
		err := service.SetStatus(context.Background(), adminPrincipal(), propertyID, model.PropertyStatusRejected)

		assert.NoError(t, err)
		mockProperties.AssertExpectations(t)
	})

	t.Run("rejecting an unflagged listing leaves the flag columns alone", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockProperties := new(MockPropertyRepository)
		mockNotifications := new(MockNotificationRepository)

		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:        propertyID,
			BuilderID: builderID,
			Status:    model.PropertyStatusPending,
		}, nil)
		mockProperties.On("UpdateStatus", mock.Anything, propertyID, model.PropertyStatusRejected).Return(nil)
		mockNotifications.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)
		mockUsers.On("FindByID", mock.Anything, builderID).Return(&model.User{ID: builderID, Email: "builder@example.com"}, nil)

		service := newTestPropertyService(mockUsers, mockProperties, mockNotifications, &fakeNotifier{})
		err := service.SetStatus(context.Background(), adminPrincipal(), propertyID, model.PropertyStatusRejected)

		assert.NoError(t, err)
		mockProperties.AssertNotCalled(t, "ClearFlag", mock.Anything, mock.Anything)
	})
}

func TestPropertyService_SetStatus_Validation(t *testing.T) {
	t.Run("builder cannot moderate", func(t *testing.T) {
		service := newTestPropertyService(new(MockUserRepository), new(MockPropertyRepository), new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetStatus(context.Background(), builderPrincipal(uuid.New()), uuid.New(), model.PropertyStatusApproved)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("pending is not a verdict", func(t *testing.T) {
		service := newTestPropertyService(new(MockUserRepository), new(MockPropertyRepository), new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetStatus(context.Background(), adminPrincipal(), uuid.New(), model.PropertyStatusPending)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestPropertyService_SetFlag(t *testing.T) {
	propertyID := uuid.New()
	sold := model.PropertyFlagSold
	rented := model.PropertyFlagRented

	t.Run("authorization outranks flag validation", func(t *testing.T) {
		// A builder sending a mismatched flag sees Forbidden, not a
		// validation error.
		service := newTestPropertyService(new(MockUserRepository), new(MockPropertyRepository), new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetFlag(context.Background(), builderPrincipal(uuid.New()), propertyID, &sold)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("flag must match listing type", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:          propertyID,
			Status:      model.PropertyStatusApproved,
			ListingType: model.ListingTypeRent,
		}, nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetFlag(context.Background(), adminPrincipal(), propertyID, &sold)

		assert.ErrorIs(t, err, errs.ErrValidation)
		mockProperties.AssertNotCalled(t, "SetFlag", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only approved listings take a flag", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:          propertyID,
			Status:      model.PropertyStatusPending,
			ListingType: model.ListingTypeRent,
		}, nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetFlag(context.Background(), adminPrincipal(), propertyID, &rented)

		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("matching flag is applied", func(t *testing.T) {
		admin := adminPrincipal()
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:          propertyID,
			Status:      model.PropertyStatusApproved,
			ListingType: model.ListingTypeRent,
		}, nil)
		mockProperties.On("SetFlag", mock.Anything, propertyID, rented, mock.AnythingOfType("time.Time"), admin.ID).Return(nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetFlag(context.Background(), admin, propertyID, &rented)

		assert.NoError(t, err)
		mockProperties.AssertExpectations(t)
	})

	t.Run("nil clears the flag", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:          propertyID,
			Status:      model.PropertyStatusApproved,
			ListingType: model.ListingTypeRent,
			Flag:        &rented,
		}, nil)
		mockProperties.On("ClearFlag", mock.Anything, propertyID).Return(nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.SetFlag(context.Background(), adminPrincipal(), propertyID, nil)

		assert.NoError(t, err)
		mockProperties.AssertExpectations(t)
	})
}

func TestPropertyService_Delete(t *testing.T) {
	builderID := uuid.New()
	propertyID := uuid.New()
	sold := model.PropertyFlagSold

	flagged := func() *model.Property {
		return &model.Property{
			ID:          propertyID,
			BuilderID:   builderID,
			Status:      model.PropertyStatusApproved,
			ListingType: model.ListingTypeSell,
			Flag:        &sold,
		}
	}

	t.Run("builder cannot delete a flagged listing", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(flagged(), nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.Delete(context.Background(), builderPrincipal(builderID), propertyID)

		assert.ErrorIs(t, err, errs.ErrForbidden)
		mockProperties.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin can delete a flagged listing", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(flagged(), nil)
		mockProperties.On("Delete", mock.Anything, propertyID).Return(nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.Delete(context.Background(), adminPrincipal(), propertyID)

		assert.NoError(t, err)
		mockProperties.AssertExpectations(t)
	})

	t.Run("builder can delete an unflagged listing", func(t *testing.T) {
		unflagged := flagged()
		unflagged.Flag = nil
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(unflagged, nil)
		mockProperties.On("Delete", mock.Anything, propertyID).Return(nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		err := service.Delete(context.Background(), builderPrincipal(builderID), propertyID)

		assert.NoError(t, err)
		mockProperties.AssertExpectations(t)
	})
}

func TestPropertyService_GetPublic(t *testing.T) {
	propertyID := uuid.New()

	t.Run("unapproved listings stay hidden", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:     propertyID,
			Status: model.PropertyStatusPending,
		}, nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		_, err := service.GetPublic(context.Background(), propertyID)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		mockProperties.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})

	t.Run("each fetch counts a view", func(t *testing.T) {
		mockProperties := new(MockPropertyRepository)
		mockProperties.On("FindByID", mock.Anything, propertyID).Return(&model.Property{
			ID:     propertyID,
			Status: model.PropertyStatusApproved,
			Views:  41,
		}, nil)
		mockProperties.On("IncrementViews", mock.Anything, propertyID).Return(nil)

		service := newTestPropertyService(new(MockUserRepository), mockProperties, new(MockNotificationRepository), &fakeNotifier{})
		property, err := service.GetPublic(context.Background(), propertyID)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), property.Views)
		mockProperties.AssertExpectations(t)
	})
}

// viewCountingRepo serves fresh approved copies and counts increments.
type viewCountingRepo struct {
	repository.PropertyRepository
	id    uuid.UUID
	views int64
}

func (r *viewCountingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	return &model.Property{ID: r.id, Status: model.PropertyStatusApproved}, nil
}

func (r *viewCountingRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	atomic.AddInt64(&r.views, 1)
	return nil
}

func TestPropertyService_GetPublic_ConcurrentViews(t *testing.T) {
	repo := &viewCountingRepo{id: uuid.New()}
	repos := &repository.Repositories{Properties: repo}
	service := NewPropertyService(repos, &fakeNotifier{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.GetPublic(context.Background(), repo.id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), atomic.LoadInt64(&repo.views))
}
