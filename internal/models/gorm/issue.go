package gorm

import (
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/geo"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Issue is a reported civic problem. Coordinates and community never change after creation.
type Issue struct {
	ID                 string                `gorm:"column:id;primaryKey;type:uuid"`
	Title              string                `gorm:"column:title;not null"`
	Description        string                `gorm:"column:description;type:text;not null"`
	ImageURL           *string               `gorm:"column:image_url"`
	Latitude           float64               `gorm:"column:latitude;not null"`
	Longitude          float64               `gorm:"column:longitude;not null"`
	Urgency            constants.Urgency     `gorm:"column:urgency;type:varchar(16);not null;default:NORMAL"`
	CommunityName      string                `gorm:"column:community_name;index:idx_issues_community_status;not null"`
	Status             constants.IssueStatus `gorm:"column:status;type:varchar(32);index:idx_issues_community_status;not null"`
	ReporterID         string                `gorm:"column:reporter_id;type:uuid;index;not null"`
	VerifierID         *string               `gorm:"column:verifier_id;type:uuid"`
	AdminID            *string               `gorm:"column:admin_id;type:uuid"`
	AssignedVerifierID *string               `gorm:"column:assigned_verifier_id;type:uuid"`
	PointsAwarded      bool                  `gorm:"column:points_awarded;not null;default:false"`
	SupportCount       int                   `gorm:"column:support_count;not null;default:1"`
	ApprovedAt         *time.Time            `gorm:"column:approved_at"`
	VerifiedAt         *time.Time            `gorm:"column:verified_at"`
	InProgressAt       *time.Time            `gorm:"column:in_progress_at"`
	ResolvedAt         *time.Time            `gorm:"column:resolved_at"`
	ClosedAt           *time.Time            `gorm:"column:closed_at"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Issue) TableName() string {
	return "issues"
}

func (i *Issue) BeforeCreate(tx *gormlib.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.SupportCount == 0 {
		i.SupportCount = 1
	}
	return nil
}

func (i *Issue) Location() geo.Coordinate {
	return geo.Coordinate{Latitude: i.Latitude, Longitude: i.Longitude}
}

// Text is the title and description joined, as compared by the duplicate resolver.
func (i *Issue) Text() string {
	return i.Title + " " + i.Description
}
