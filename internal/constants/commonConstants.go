package constants

type (
	APIStatus        string
	AuditAction      string
	NotificationType string
	CachePrefix      string
)

const (
	APIStatusOk    APIStatus = "success"
	APIStatusError APIStatus = "error"
)

// Audit actions, one per transition orchestrator.
const (
	AuditApprove                   AuditAction = "APPROVE"
	AuditReject                    AuditAction = "REJECT"
	AuditMarkInProgress            AuditAction = "MARK_IN_PROGRESS"
	AuditMarkResolved              AuditAction = "MARK_RESOLVED"
	AuditClose                     AuditAction = "CLOSE"
	AuditFalseAlarm                AuditAction = "FALSE_ALARM"
	AuditUserVerifyExistence       AuditAction = "USER_VERIFY_EXISTENCE"
	AuditUserVerifyResolutionClose AuditAction = "USER_VERIFY_RESOLUTION_CLOSE"
)

const (
	NotificationVerifyRequest NotificationType = "VERIFY_REQUEST"
	NotificationAdminInfo     NotificationType = "ADMIN_INFO"
	NotificationStatusUpdate  NotificationType = "STATUS_UPDATE"
)

const (
	CachePrefixPushSent       CachePrefix = "PUSH_SENT_"
	CachePrefixCommunityStats CachePrefix = "COMMUNITY_STATS_"
)

const (
	// SettingWeeklyReset is the system_settings key holding the last weekly reset.
	SettingWeeklyReset = "last_weekly_reset"

	PushStreamName    = "push:outbound"
	PushConsumerGroup = "push-workers"

	NotificationListLimit = 50
	LeaderboardSize       = 3
	RecentIssuesLimit     = 5
)
