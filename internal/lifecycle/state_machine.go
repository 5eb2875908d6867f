package lifecycle

import (
	"fmt"
	"strings"

	"civic-commons/townhall/internal/constants"
)

// AllowedTransitions returns the statuses reachable from `from`.
// Unknown statuses have no outgoing transitions.
func AllowedTransitions(from constants.IssueStatus) []constants.IssueStatus {
	switch from {
	case constants.StatusPendingApproval:
		// CLOSED here means rejected
		return []constants.IssueStatus{constants.StatusApproved, constants.StatusClosed}
	case constants.StatusApproved:
		// CLOSED here means false alarm
		return []constants.IssueStatus{constants.StatusVerifiedByNeighbor, constants.StatusClosed}
	case constants.StatusVerifiedByNeighbor:
		return []constants.IssueStatus{constants.StatusInProgress, constants.StatusClosed}
	case constants.StatusInProgress:
		return []constants.IssueStatus{constants.StatusResolved}
	case constants.StatusResolved:
		return []constants.IssueStatus{constants.StatusClosed}
	case constants.StatusClosed:
		return nil
	default:
		return nil
	}
}

func IsValidTransition(from, to constants.IssueStatus) bool {
	for _, s := range AllowedTransitions(from) {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminal(status constants.IssueStatus) bool {
	return status == constants.StatusClosed
}

// TransitionError is the human readable reason a transition is refused.
func TransitionError(from, to constants.IssueStatus) string {
	if IsTerminal(from) {
		return fmt.Sprintf("Invalid transition: status %q is terminal.", string(from))
	}
	allowed := AllowedTransitions(from)
	if len(allowed) == 0 {
		return fmt.Sprintf("Invalid transition: status %q is unknown.", string(from))
	}

	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("Invalid transition: %s -> %s. Allowed: %s", from, to, strings.Join(names, ", "))
}
