package constants

import "database/sql/driver"

// IssueStatus is the lifecycle state of an issue.
type IssueStatus string

const (
	StatusPendingApproval    IssueStatus = "PENDING_APPROVAL"
	StatusApproved           IssueStatus = "APPROVED"
	StatusVerifiedByNeighbor IssueStatus = "VERIFIED_BY_NEIGHBOR"
	StatusInProgress         IssueStatus = "IN_PROGRESS"
	StatusResolved           IssueStatus = "RESOLVED"
	StatusClosed             IssueStatus = "CLOSED"
)

// AllIssueStatuses lists every status in lifecycle order.
var AllIssueStatuses = []IssueStatus{
	StatusPendingApproval,
	StatusApproved,
	StatusVerifiedByNeighbor,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

func (s IssueStatus) String() string { return string(s) }

func (s IssueStatus) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusVerifiedByNeighbor,
		StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

// Label is the human readable badge text for a status.
func (s IssueStatus) Label() string {
	switch s {
	case StatusPendingApproval:
		return "Pending approval"
	case StatusApproved:
		return "Approved"
	case StatusVerifiedByNeighbor:
		return "Verified by neighbor"
	case StatusInProgress:
		return "In progress"
	case StatusResolved:
		return "Resolved"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

func (s *IssueStatus) Scan(src interface{}) error {
	v, err := scanString("IssueStatus", src)
	if err != nil {
		return err
	}
	*s = IssueStatus(v)
	return nil
}

func (s IssueStatus) Value() (driver.Value, error) { return string(s), nil }

// Urgency flags how quickly an issue needs attention.
type Urgency string

const (
	UrgencyNormal Urgency = "NORMAL"
	UrgencyUrgent Urgency = "URGENT"
)

func (u Urgency) Valid() bool {
	return u == UrgencyNormal || u == UrgencyUrgent
}

func (u *Urgency) Scan(src interface{}) error {
	v, err := scanString("Urgency", src)
	if err != nil {
		return err
	}
	*u = Urgency(v)
	return nil
}

func (u Urgency) Value() (driver.Value, error) { return string(u), nil }

// VerificationKind distinguishes a neighbor confirming the issue exists from one confirming it is fixed.
type VerificationKind string

const (
	VerificationExistence  VerificationKind = "EXISTENCE"
	VerificationResolution VerificationKind = "RESOLUTION"
)

func (k *VerificationKind) Scan(src interface{}) error {
	v, err := scanString("VerificationKind", src)
	if err != nil {
		return err
	}
	*k = VerificationKind(v)
	return nil
}

func (k VerificationKind) Value() (driver.Value, error) { return string(k), nil }
