package constants

// Reporting queries run through sqlx. Placeholders are written as ? and rebound per driver.
const (
	CountIssuesByStatus = `
	SELECT status, COUNT(*) AS count
	FROM issues
	WHERE community_name = ?
	GROUP BY status
	`

	MemberPointTotals = `
	SELECT COUNT(*) AS members, COALESCE(SUM(civic_points), 0) AS total_points
	FROM users
	WHERE community_name = ? AND role = ?
	`

	RecentIssuesByCommunity = `
	SELECT id, title, status, urgency, support_count, created_at
	FROM issues
	WHERE community_name = ?
	ORDER BY created_at DESC
	LIMIT ?
	`
)
