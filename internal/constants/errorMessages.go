package constants

const (
	MsgUnauthenticated      = "Unauthorized"
	MsgInvalidToken         = "Invalid or expired token"
	MsgAdminRequired        = "Forbidden: admin access required"
	MsgMemberRequired       = "Only community members (USER role) can perform this action"
	MsgWrongCommunity       = "Forbidden: issue does not belong to your community"
	MsgIssueNotFound        = "Issue not found"
	MsgUserNotFound         = "User not found"
	MsgNotificationNotFound = "Notification not found"
	MsgSelfVerification     = "You cannot verify an issue you raised"
	MsgOutOfRadius          = "You must be within %.0fm of the issue location to verify."
	MsgNotAssignedVerifier  = "Only the nearest assigned user can verify this issue."
	MsgNotNearestVerifier   = "Only the nearest user within %.0fm can verify this issue."
	MsgAlreadyVerified      = "You have already verified this issue"
	MsgAlreadyVerifiedFix   = "You have already verified the resolution."
	MsgIssueRateLimited     = "Rate limit exceeded: maximum %d issues per 24 hours. Try again later."
	MsgVerifyRateLimited    = "Rate limit exceeded: maximum %d verifications per 24 hours. Try again later."
	MsgEmailTaken           = "User with this email already exists"
	MsgAdminExists          = "An admin already exists for this community"
	MsgInvalidCredentials   = "Invalid email, password, or community name"
	MsgInternal             = "Internal server error"
)

// Notification and push texts.
const (
	MsgVerifyRequest         = "Please verify this issue near you: %q."
	MsgAdminVerified         = "Verified. Allocate resources."
	MsgAdminResolutionClosed = "Resolution verified by a nearby user. Issue closed."
	MsgReporterApproved      = "Your issue %q has been approved. +%d civic points."
	MsgReporterApprovedNoPts = "Your issue %q has been approved."
	MsgReporterRejected      = "Your issue %q was rejected."
	MsgReporterPenalized     = "Your issue %q was closed as a false report. %d civic points applied."
	MsgReporterFalseAlarm    = "Your issue %q was marked as a false alarm."
	MsgReporterInProgress    = "%q is now in progress."
	MsgReporterResolved      = "%q has been marked as resolved."
	MsgReporterClosed        = "%q has been closed."
	MsgReporterVerified      = "%q was verified by a neighbor. Admin will allocate resources."
	MsgReporterFixVerified   = "%q resolution was verified. Issue is now closed."
)
