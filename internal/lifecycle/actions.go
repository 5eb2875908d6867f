package lifecycle

import (
	"fmt"
	"strings"

	"civic-commons/townhall/internal/constants"
)

// ActionRule is what one orchestrator action does to an issue.
type ActionRule struct {
	To constants.IssueStatus
	// From narrows the sources the action is meant for. Empty means any status the
	// state machine allows into To.
	From []constants.IssueStatus
	// Milestone is the issues column stamped when the action commits.
	Milestone string
}

// RuleFor returns the rule for an action. The switch is exhaustive over AuditAction.
func RuleFor(action constants.AuditAction) (ActionRule, bool) {
	switch action {
	case constants.AuditApprove:
		return ActionRule{To: constants.StatusApproved, From: []constants.IssueStatus{constants.StatusPendingApproval}, Milestone: "approved_at"}, true
	case constants.AuditReject:
		return ActionRule{To: constants.StatusClosed, From: []constants.IssueStatus{constants.StatusPendingApproval}, Milestone: "closed_at"}, true
	case constants.AuditFalseAlarm:
		return ActionRule{To: constants.StatusClosed, From: []constants.IssueStatus{constants.StatusApproved, constants.StatusVerifiedByNeighbor}, Milestone: "closed_at"}, true
	case constants.AuditMarkInProgress:
		return ActionRule{To: constants.StatusInProgress, Milestone: "in_progress_at"}, true
	case constants.AuditMarkResolved:
		return ActionRule{To: constants.StatusResolved, Milestone: "resolved_at"}, true
	case constants.AuditClose:
		return ActionRule{To: constants.StatusClosed, Milestone: "closed_at"}, true
	case constants.AuditUserVerifyExistence:
		return ActionRule{To: constants.StatusVerifiedByNeighbor, From: []constants.IssueStatus{constants.StatusApproved}, Milestone: "verified_at"}, true
	case constants.AuditUserVerifyResolutionClose:
		return ActionRule{To: constants.StatusClosed, From: []constants.IssueStatus{constants.StatusResolved}, Milestone: "closed_at"}, true
	default:
		return ActionRule{}, false
	}
}

// CheckAction validates running action on an issue currently in `from`.
// It returns the destination status, or a message explaining the refusal.
func CheckAction(action constants.AuditAction, from constants.IssueStatus) (constants.IssueStatus, string, bool) {
	rule, ok := RuleFor(action)
	if !ok {
		return "", fmt.Sprintf("Unknown action %q", string(action)), false
	}
	if !IsValidTransition(from, rule.To) {
		return rule.To, TransitionError(from, rule.To), false
	}
	if len(rule.From) > 0 && !containsStatus(rule.From, from) {
		names := make([]string, len(rule.From))
		for i, s := range rule.From {
			names[i] = string(s)
		}
		return rule.To, fmt.Sprintf("Invalid transition: %s applies only to %s issues, this one is %s",
			action, strings.Join(names, " or "), from), false
	}
	return rule.To, "", true
}

func containsStatus(list []constants.IssueStatus, s constants.IssueStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
