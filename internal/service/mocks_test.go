package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	args := m.Called(ctx, id, email)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockPendingAccountRepository is a mock implementation of PendingAccountRepository.
type MockPendingAccountRepository struct {
	mock.Mock
}

func (m *MockPendingAccountRepository) Upsert(ctx context.Context, pending *model.PendingAccount) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingAccountRepository) FindByEmail(ctx context.Context, email string) (*model.PendingAccount, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingAccount), args.Error(1)
}

func (m *MockPendingAccountRepository) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockPropertyRepository is a mock implementation of PropertyRepository.
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *model.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListApproved(ctx context.Context, filter repository.PropertyFilter) ([]model.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.Property, error) {
	args := m.Called(ctx, builderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListPending(ctx context.Context) ([]model.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PropertyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPropertyRepository) SetFlag(ctx context.Context, id uuid.UUID, flag model.PropertyFlag, flaggedAt time.Time, flaggedBy uuid.UUID) error {
	args := m.Called(ctx, id, flag, flaggedAt, flaggedBy)
	return args.Error(0)
}

func (m *MockPropertyRepository) ClearFlag(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLeadRepository is a mock implementation of LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]model.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByAssignee(ctx context.Context, staffID uuid.UUID) ([]model.Lead, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]model.Lead, error) {
	args := m.Called(ctx, builderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LeadStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockSiteVisitRepository is a mock implementation of SiteVisitRepository.
type MockSiteVisitRepository struct {
	mock.Mock
}

func (m *MockSiteVisitRepository) Create(ctx context.Context, visit *model.SiteVisit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockSiteVisitRepository) Update(ctx context.Context, visit *model.SiteVisit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockSiteVisitRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SiteVisit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SiteVisit), args.Error(1)
}

func (m *MockSiteVisitRepository) List(ctx context.Context) ([]model.SiteVisit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SiteVisit), args.Error(1)
}

func (m *MockSiteVisitRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]model.SiteVisit, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SiteVisit), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockFavoriteRepository is a mock implementation of FavoriteRepository.
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, propertyID uuid.UUID) error {
	args := m.Called(ctx, userID, propertyID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Find(ctx context.Context, userID, propertyID uuid.UUID) (*model.Favorite, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Favorite), args.Error(1)
}

// fakeNotifier records notifications and mail in memory. Used where the test
// cares about side effects rather than call expectations.
type fakeNotifier struct {
	records   []*model.Notification
	emails    []string
	recordErr error
}

func (f *fakeNotifier) Record(ctx context.Context, n *model.Notification) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, n)
	return nil
}

func (f *fakeNotifier) RecordTx(ctx context.Context, tx *repository.Repositories, n *model.Notification) error {
	return tx.Notifications.Create(ctx, n)
}

func (f *fakeNotifier) Email(to, subject, body string) {
	f.emails = append(f.emails, to)
}

func (f *fakeNotifier) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// testRepos builds a repository bundle over mocks. The zero db handle makes
// WithTransaction run its callback against the same bundle.
func testRepos(
	users *MockUserRepository,
	pending *MockPendingAccountRepository,
	properties *MockPropertyRepository,
	leads *MockLeadRepository,
	visits *MockSiteVisitRepository,
	notifications *MockNotificationRepository,
	favorites *MockFavoriteRepository,
) *repository.Repositories {
	return &repository.Repositories{
		Users:         users,
		Pending:       pending,
		Properties:    properties,
		Leads:         leads,
		SiteVisits:    visits,
		Notifications: notifications,
		Favorites:     favorites,
	}
}
