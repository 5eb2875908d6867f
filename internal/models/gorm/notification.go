package gorm

import (
	"civic-commons/townhall/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

type Notification struct {
	ID        string                     `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string                     `gorm:"column:user_id;type:uuid;index:idx_notifications_user_created;not null"`
	IssueID   *string                    `gorm:"column:issue_id;type:uuid"`
	Type      constants.NotificationType `gorm:"column:type;type:varchar(32);not null"`
	Message   string                     `gorm:"column:message;type:text;not null"`
	Read      bool                       `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime;index:idx_notifications_user_created"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gormlib.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
