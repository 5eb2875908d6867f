package entities

import "time"

type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

type MemberTotals struct {
	Members     int64 `db:"members"`
	TotalPoints int64 `db:"total_points"`
}

type RecentIssue struct {
	ID           string    `db:"id"            json:"id"`
	Title        string    `db:"title"         json:"title"`
	Status       string    `db:"status"        json:"status"`
	Urgency      string    `db:"urgency"       json:"urgency"`
	SupportCount int       `db:"support_count" json:"supportCount"`
	CreatedAt    time.Time `db:"created_at"    json:"createdAt"`
}
