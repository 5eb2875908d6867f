package lifecycle

import "civic-commons/townhall/internal/constants"

const (
	ApprovalBonus      = 10
	FalseReportPenalty = -200
	VerificationBonus  = 5
)

// Recipient says whose balances an Award applies to.
type Recipient int

const (
	RecipientNone Recipient = iota
	RecipientReporter
	RecipientVerifier
)

// Award is the civic points outcome of one transition. Points apply to both the
// lifetime and the weekly balance.
type Award struct {
	Points    int
	Recipient Recipient
	// MarkAwarded is set when the issue's pointsAwarded flag must flip to true
	// in the same transaction.
	MarkAwarded bool
}

func (a Award) IsZero() bool { return a.Points == 0 }

// PointsFor returns the award for an action on the edge from -> to. Anything off the
// exact edges below awards nothing.
func PointsFor(action constants.AuditAction, from, to constants.IssueStatus, pointsAwarded bool) Award {
	switch action {
	case constants.AuditApprove:
		if from == constants.StatusPendingApproval && to == constants.StatusApproved && !pointsAwarded {
			return Award{Points: ApprovalBonus, Recipient: RecipientReporter, MarkAwarded: true}
		}
	case constants.AuditReject:
		if from == constants.StatusPendingApproval && to == constants.StatusClosed && pointsAwarded {
			return Award{Points: FalseReportPenalty, Recipient: RecipientReporter}
		}
	case constants.AuditFalseAlarm:
		fromAllowed := from == constants.StatusApproved || from == constants.StatusVerifiedByNeighbor
		if fromAllowed && to == constants.StatusClosed && pointsAwarded {
			return Award{Points: FalseReportPenalty, Recipient: RecipientReporter}
		}
	case constants.AuditUserVerifyExistence:
		if from == constants.StatusApproved && to == constants.StatusVerifiedByNeighbor {
			return Award{Points: VerificationBonus, Recipient: RecipientVerifier}
		}
	case constants.AuditUserVerifyResolutionClose:
		if from == constants.StatusResolved && to == constants.StatusClosed {
			return Award{Points: VerificationBonus, Recipient: RecipientVerifier}
		}
	case constants.AuditMarkInProgress, constants.AuditMarkResolved, constants.AuditClose:
	}
	return Award{}
}
