package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the gorm repositories over one handle. Inside WithinTransaction the
// handle is the transaction, so every repository call joins it.
type Store struct {
	db *gorm.DB

	Users         *UserRepositoryGORM
	Issues        *IssueRepository
	Verifications *VerificationRepository
	AuditLogs     *AuditLogRepository
	Notifications *NotificationRepository
	Settings      *SystemSettingRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepositoryGORM(db),
		Issues:        NewIssueRepository(db),
		Verifications: NewVerificationRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
		Notifications: NewNotificationRepository(db),
		Settings:      NewSystemSettingRepo(db),
	}
}

// WithinTransaction runs fn in one database transaction. A returned error rolls back everything fn wrote.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
