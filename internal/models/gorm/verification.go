package gorm

import (
	"civic-commons/townhall/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Verification is unique per (issue, user, kind).
type Verification struct {
	ID        string                     `gorm:"column:id;primaryKey;type:uuid"`
	IssueID   string                     `gorm:"column:issue_id;type:uuid;not null;uniqueIndex:idx_verifications_issue_user_kind"`
	UserID    string                     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_verifications_issue_user_kind;index:idx_verifications_user_created"`
	Kind      constants.VerificationKind `gorm:"column:kind;type:varchar(16);not null;uniqueIndex:idx_verifications_issue_user_kind"`
	Verified  bool                       `gorm:"column:verified;not null;default:true"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime;index:idx_verifications_user_created"`
}

// TableName specifies the table name for GORM
func (Verification) TableName() string {
	return "verifications"
}

func (v *Verification) BeforeCreate(tx *gormlib.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
