package gorm

import (
	"civic-commons/townhall/internal/constants"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

type User struct {
	ID             string         `gorm:"column:id;primaryKey;type:uuid"`
	Name           string         `gorm:"column:name;not null"`
	Email          string         `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	HouseAddress   *string        `gorm:"column:house_address"`
	CommunityName  string         `gorm:"column:community_name;index;not null"`
	Role           constants.Role `gorm:"column:role;type:varchar(16);index;not null"`
	CivicPoints    int            `gorm:"column:civic_points;not null;default:0"`
	WeeklyPoints   int            `gorm:"column:weekly_points;not null;default:0"`
	LastLatitude   *float64       `gorm:"column:last_latitude"`
	LastLongitude  *float64       `gorm:"column:last_longitude"`
	LastLocationAt *time.Time     `gorm:"column:last_location_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gormlib.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasLocation reports whether the user has ever sent a location ping.
func (u *User) HasLocation() bool {
	return u.LastLatitude != nil && u.LastLongitude != nil
}
