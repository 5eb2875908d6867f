package responses

import (
	"time"

	gormModels "civic-commons/townhall/internal/models/gorm"
	"civic-commons/townhall/internal/services"
)

type IssueView struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	ImageURL           *string    `json:"imageUrl,omitempty"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	Urgency            string     `json:"urgency"`
	CommunityName      string     `json:"communityName"`
	Status             string     `json:"status"`
	ReporterID         string     `json:"reporterId"`
	VerifierID         *string    `json:"verifierId,omitempty"`
	AdminID            *string    `json:"adminId,omitempty"`
	AssignedVerifierID *string    `json:"assignedVerifierId,omitempty"`
	PointsAwarded      bool       `json:"pointsAwarded"`
	SupportCount       int        `json:"supportCount"`
	ApprovedAt         *time.Time `json:"approvedAt,omitempty"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
	InProgressAt       *time.Time `json:"inProgressAt,omitempty"`
	ResolvedAt         *time.Time `json:"resolvedAt,omitempty"`
	ClosedAt           *time.Time `json:"closedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func NewIssueView(i *gormModels.Issue) *IssueView {
	return &IssueView{
		ID:                 i.ID,
		Title:              i.Title,
		Description:        i.Description,
		ImageURL:           i.ImageURL,
		Latitude:           i.Latitude,
		Longitude:          i.Longitude,
		Urgency:            string(i.Urgency),
		CommunityName:      i.CommunityName,
		Status:             string(i.Status),
		ReporterID:         i.ReporterID,
		VerifierID:         i.VerifierID,
		AdminID:            i.AdminID,
		AssignedVerifierID: i.AssignedVerifierID,
		PointsAwarded:      i.PointsAwarded,
		SupportCount:       i.SupportCount,
		ApprovedAt:         i.ApprovedAt,
		VerifiedAt:         i.VerifiedAt,
		InProgressAt:       i.InProgressAt,
		ResolvedAt:         i.ResolvedAt,
		ClosedAt:           i.ClosedAt,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func NewIssueList(issues []gormModels.Issue) []*IssueView {
	out := make([]*IssueView, 0, len(issues))
	for i := range issues {
		out = append(out, NewIssueView(&issues[i]))
	}
	return out
}

type ReportView struct {
	Created bool       `json:"created"`
	Merged  bool       `json:"merged"`
	Issue   *IssueView `json:"issue"`
}

func NewReportView(r *services.ReportResult) *ReportView {
	return &ReportView{Created: r.Created, Merged: !r.Created, Issue: NewIssueView(r.Issue)}
}

type VerificationView struct {
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

type IssueDetailView struct {
	*IssueView
	Verifications []VerificationView `json:"verifications"`
}

func NewIssueDetailView(d *services.IssueDetail) *IssueDetailView {
	view := &IssueDetailView{IssueView: NewIssueView(d.Issue), Verifications: make([]VerificationView, 0, len(d.Verifications))}
	for _, v := range d.Verifications {
		view.Verifications = append(view.Verifications, VerificationView{
			UserID: v.UserID, Kind: string(v.Kind), Verified: v.Verified, CreatedAt: v.CreatedAt,
		})
	}
	return view
}

type AuditEntryView struct {
	ID           string    `json:"id"`
	PerformedBy  string    `json:"performedBy"`
	Action       string    `json:"action"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
	PointsChange *int      `json:"pointsChange,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewAuditLogView(entries []gormModels.AuditLogEntry) []AuditEntryView {
	out := make([]AuditEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryView{
			ID:           e.ID,
			PerformedBy:  e.PerformedBy,
			Action:       string(e.Action),
			FromStatus:   string(e.FromStatus),
			ToStatus:     string(e.ToStatus),
			PointsChange: e.PointsChange,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}

// UserView never carries the password hash.
type UserView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	CommunityName  string     `json:"communityName"`
	HouseAddress   *string    `json:"houseAddress,omitempty"`
	CivicPoints    int        `json:"civicPoints"`
	WeeklyPoints   int        `json:"weeklyPoints"`
	LastLatitude   *float64   `json:"lastLatitude,omitempty"`
	LastLongitude  *float64   `json:"lastLongitude,omitempty"`
	LastLocationAt *time.Time `json:"lastLocationAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func NewUserView(u *gormModels.User) *UserView {
	return &UserView{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		CommunityName:  u.CommunityName,
		HouseAddress:   u.HouseAddress,
		CivicPoints:    u.CivicPoints,
		WeeklyPoints:   u.WeeklyPoints,
		LastLatitude:   u.LastLatitude,
		LastLongitude:  u.LastLongitude,
		LastLocationAt: u.LastLocationAt,
		CreatedAt:      u.CreatedAt,
	}
}

type AuthView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserView `json:"user"`
}

func NewAuthView(r *services.AuthResult) *AuthView {
	return &AuthView{Token: r.Token, ExpiresAt: r.ExpiresAt, User: NewUserView(r.User)}
}

type NotificationView struct {
	ID        string    `json:"id"`
	IssueID   *string   `json:"issueId,omitempty"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewNotificationList(list []gormModels.Notification) []NotificationView {
	out := make([]NotificationView, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationView{
			ID: n.ID, IssueID: n.IssueID, Type: string(n.Type), Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}
	return out
}

type JobStatusView struct {
	LastWeeklyResetAt *time.Time `json:"lastWeeklyResetAt"`
	NextDueAt         *time.Time `json:"nextDueAt"`
	PushQueueLength   *int64     `json:"pushQueueLength,omitempty"`
	PushQueuePending  *int64     `json:"pushQueuePending,omitempty"`
}

func NewJobStatusView(last *time.Time) *JobStatusView {
	view := &JobStatusView{LastWeeklyResetAt: last}
	if last != nil {
		next := last.Add(services.WeeklyResetPeriod)
		view.NextDueAt = &next
	}
	return view
}
