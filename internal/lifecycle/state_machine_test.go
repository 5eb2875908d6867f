package lifecycle

import (
	"strings"
	"testing"

	"civic-commons/townhall/internal/constants"
)

func TestIsValidTransition_MatchesTable(t *testing.T) {
	legal := map[constants.IssueStatus][]constants.IssueStatus{
		constants.StatusPendingApproval:    {constants.StatusApproved, constants.StatusClosed},
		constants.StatusApproved:           {constants.StatusVerifiedByNeighbor, constants.StatusClosed},
		constants.StatusVerifiedByNeighbor: {constants.StatusInProgress, constants.StatusClosed},
		constants.StatusInProgress:         {constants.StatusResolved},
		constants.StatusResolved:           {constants.StatusClosed},
		constants.StatusClosed:             {},
	}

	for _, from := range constants.AllIssueStatuses {
		for _, to := range constants.AllIssueStatuses {
			want := false
			for _, s := range legal[from] {
				if s == to {
					want = true
				}
			}

			if got := IsValidTransition(from, to); got != want {
				t.Errorf("IsValidTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsValidTransition_ClosedIsTerminal(t *testing.T) {
	for _, to := range constants.AllIssueStatuses {
		if IsValidTransition(constants.StatusClosed, to) {
			t.Errorf("Expected no transition out of CLOSED, got CLOSED -> %s", to)
		}
	}
	if !IsTerminal(constants.StatusClosed) {
		t.Error("Expected CLOSED to be terminal")
	}
	if IsTerminal(constants.StatusResolved) {
		t.Error("Expected RESOLVED not to be terminal")
	}
}

func TestIsValidTransition_UnknownFrom(t *testing.T) {
	if IsValidTransition("ARCHIVED", constants.StatusApproved) {
		t.Error("Expected unknown status to have no transitions")
	}
}

func TestTransitionError(t *testing.T) {
	msg := TransitionError(constants.StatusPendingApproval, constants.StatusResolved)
	want := "Invalid transition: PENDING_APPROVAL -> RESOLVED. Allowed: APPROVED, CLOSED"
	if msg != want {
		t.Errorf("Expected %q, got %q", want, msg)
	}

	terminal := TransitionError(constants.StatusClosed, constants.StatusApproved)
	if terminal != `Invalid transition: status "CLOSED" is terminal.` {
		t.Errorf("Expected terminal message, got %q", terminal)
	}

	unknown := TransitionError("ARCHIVED", constants.StatusApproved)
	if !strings.Contains(unknown, `"ARCHIVED"`) || !strings.Contains(unknown, "unknown") {
		t.Errorf("Expected quoted unknown status, got %q", unknown)
	}
}
