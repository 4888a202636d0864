package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one *gorm.DB so services can run
// multi-table units atomically.
type Repositories struct {
	Users         UserRepository
	Pending       PendingAccountRepository
	Properties    PropertyRepository
	Leads         LeadRepository
	SiteVisits    SiteVisitRepository
	Notifications NotificationRepository
	Favorites     FavoriteRepository

	db *gorm.DB
}

// NewRepositories wires all repositories to the given database handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Pending:       NewPendingAccountRepository(db),
		Properties:    NewPropertyRepository(db),
		Leads:         NewLeadRepository(db),
		SiteVisits:    NewSiteVisitRepository(db),
		Notifications: NewNotificationRepository(db),
		Favorites:     NewFavoriteRepository(db),
		db:            db,
	}
}

// WithTransaction executes fn with a transaction-scoped repository bundle.
// The callback's writes commit or roll back together.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	if r.db == nil {
		// No database handle: run fn against this bundle directly.
		return fn(ctx, r)
	}
	return r.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(ctx, NewRepositories(txDB))
	})
}
