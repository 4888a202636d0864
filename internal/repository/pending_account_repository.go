package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estatedesk/internal/model"
)

// PendingAccountRepository persists staged identity operations keyed by email.
type PendingAccountRepository interface {
	Upsert(ctx context.Context, pending *model.PendingAccount) error
	FindByEmail(ctx context.Context, email string) (*model.PendingAccount, error)
	Delete(ctx context.Context, email string) error
}

type pendingAccountRepository struct {
	db *gorm.DB
}

// NewPendingAccountRepository creates a new pending account repository.
func NewPendingAccountRepository(db *gorm.DB) PendingAccountRepository {
	return &pendingAccountRepository{db: db}
}

// Upsert inserts or replaces the pending record for an email in one atomic
// statement. A new OTP request therefore invalidates any prior unconsumed one
// for the same email.
func (r *pendingAccountRepository) Upsert(ctx context.Context, pending *model.PendingAccount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		UpdateAll: true,
	}).Create(pending).Error
}

// FindByEmail returns the pending record for an email.
func (r *pendingAccountRepository) FindByEmail(ctx context.Context, email string) (*model.PendingAccount, error) {
	var pending model.PendingAccount
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&pending).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

// Delete removes the pending record for an email.
func (r *pendingAccountRepository) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.PendingAccount{}).Error
}
