package services

import (
	"context"
	"testing"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/geo"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

func TestReportIssue_MergesNearbySimilarReport(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	bob := env.createUser(t, "bob", constants.RoleUser, "elm", nil)

	first := env.report(t, alice, origin, "Large pothole on Main street", "Deep pothole near the bus stop")
	if !first.Created || first.Issue.SupportCount != 1 || first.Issue.Status != constants.StatusPendingApproval {
		t.Fatalf("unexpected first report: %+v", first.Issue)
	}

	second := env.report(t, bob, north(10), "Pothole on Main", "Still there, wheels hit it")
	if second.Created {
		t.Fatal("expected merge, got a new issue")
	}
	if second.Issue.ID != first.Issue.ID || second.Issue.SupportCount != 2 {
		t.Fatalf("expected support 2 on %s, got %+v", first.Issue.ID, second.Issue)
	}

	issues, _ := env.store.Issues.ListByCommunity(context.Background(), "elm", nil)
	if len(issues) != 1 {
		t.Fatalf("expected one row, got %d", len(issues))
	}
}

func TestReportIssue_CoLocatedButDifferentCreatesNew(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)

	env.report(t, alice, origin, "Large pothole on Main street", "Deep pothole near the bus stop")
	res := env.report(t, alice, north(40), "Broken streetlight", "Lamp flickering, dark corner")
	if !res.Created {
		t.Fatal("a report with no shared words must create a new issue")
	}

	// Same words, but outside the 50 m radius.
	far := env.report(t, alice, north(120), "Large pothole on Main street", "Deep pothole near the bus stop")
	if !far.Created {
		t.Fatal("a similar report outside the radius must create a new issue")
	}
}

func TestReportIssue_IgnoresClosedAndOtherCommunities(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	oscar := env.createUser(t, "oscar", constants.RoleUser, "oak", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)

	first := env.report(t, alice, origin, "Large pothole on Main street", "Deep pothole near the bus stop")
	if _, err := env.svc.RejectIssue(context.Background(), claimsFor(admin), first.Issue.ID); err != nil {
		t.Fatalf("RejectIssue: %v", err)
	}
	if res := env.report(t, alice, origin, "Large pothole on Main street", "Deep pothole"); !res.Created {
		t.Fatal("closed issues are not merge targets")
	}
	if res := env.report(t, oscar, origin, "Large pothole on Main street", "Deep pothole"); !res.Created {
		t.Fatal("other communities are not merge targets")
	}
}

func TestReportIssue_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	ctx := context.Background()

	_, err := env.svc.ReportIssue(ctx, claimsFor(admin), ReportIssueInput{Coordinate: origin, Title: "t", Description: "d"})
	if apperrors.CodeOf(err) != apperrors.CodeWrongRole {
		t.Fatalf("admin report: expected WRONG_ROLE, got %v", err)
	}

	cases := []ReportIssueInput{
		{Coordinate: origin, Title: "  ", Description: "d"},
		{Coordinate: origin, Title: "t", Description: ""},
		{Coordinate: geo.Coordinate{Latitude: 91, Longitude: 0}, Title: "t", Description: "d"},
		{Coordinate: origin, Title: "t", Description: "d", Urgency: "SOMEDAY"},
	}
	for i, in := range cases {
		if _, err := env.svc.ReportIssue(ctx, claimsFor(alice), in); apperrors.KindOf(err) != apperrors.KindValidation {
			t.Errorf("case %d: expected VALIDATION, got %v", i, err)
		}
	}

	if _, err := env.svc.ReportIssue(ctx, nil, cases[0]); apperrors.KindOf(err) != apperrors.KindUnauthenticated {
		t.Fatalf("nil actor: expected UNAUTHENTICATED, got %v", err)
	}
}

func TestReportIssue_RateLimitedOnSixth(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		// 1 km apart so nothing merges.
		res := env.report(t, alice, north(float64(i)*1000), "Issue number", "Description text")
		if !res.Created {
			t.Fatalf("report %d should create", i+1)
		}
	}
	_, err := env.svc.ReportIssue(ctx, claimsFor(alice), ReportIssueInput{
		Coordinate: north(9000), Title: "Sixth", Description: "One too many",
	})
	if apperrors.KindOf(err) != apperrors.KindRateLimited {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
}

func TestApproveIssue_AwardsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	approved, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID)
	if err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}
	if approved.Status != constants.StatusApproved || !approved.PointsAwarded || approved.ApprovedAt == nil {
		t.Fatalf("unexpected approved issue: %+v", approved)
	}
	if approved.AdminID == nil || *approved.AdminID != admin.ID {
		t.Fatalf("expected admin id recorded, got %v", approved.AdminID)
	}

	_, err = env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID)
	if apperrors.KindOf(err) != apperrors.KindInvalidTransition {
		t.Fatalf("second approve: expected INVALID_TRANSITION, got %v", err)
	}

	got := env.reload(t, alice)
	if got.CivicPoints != 10 || got.WeeklyPoints != 10 {
		t.Fatalf("expected 10/10 points, got %d/%d", got.CivicPoints, got.WeeklyPoints)
	}

	entries, _ := env.store.AuditLogs.ListByIssue(ctx, issue.ID)
	if len(entries) != 1 || entries[0].PointsChange == nil || *entries[0].PointsChange != 10 {
		t.Fatalf("expected one audit entry with +10, got %+v", entries)
	}

	if n := env.notifier.forUser(alice.ID); len(n) != 1 || n[0].Type != constants.NotificationStatusUpdate {
		t.Fatalf("expected one status update for reporter, got %+v", n)
	}
}

func TestRejectIssue_NoPenaltyWithoutBonus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	rejected, err := env.svc.RejectIssue(ctx, claimsFor(admin), issue.ID)
	if err != nil {
		t.Fatalf("RejectIssue: %v", err)
	}
	if rejected.Status != constants.StatusClosed || rejected.ClosedAt == nil {
		t.Fatalf("unexpected rejected issue: %+v", rejected)
	}
	if got := env.reload(t, alice); got.CivicPoints != 0 {
		t.Fatalf("rejecting a never-approved issue must not deduct, got %d", got.CivicPoints)
	}

	entries, _ := env.store.AuditLogs.ListByIssue(ctx, issue.ID)
	if len(entries) != 1 || entries[0].PointsChange != nil || entries[0].Action != constants.AuditReject {
		t.Fatalf("unexpected audit log: %+v", entries)
	}
}

func TestMarkFalseAlarm_ClawsBackAfterApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	if _, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID); err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}
	// Rejection is only for pending issues.
	if _, err := env.svc.RejectIssue(ctx, claimsFor(admin), issue.ID); apperrors.KindOf(err) != apperrors.KindInvalidTransition {
		t.Fatalf("reject after approve: expected INVALID_TRANSITION, got %v", err)
	}

	closed, err := env.svc.MarkFalseAlarm(ctx, claimsFor(admin), issue.ID)
	if err != nil {
		t.Fatalf("MarkFalseAlarm: %v", err)
	}
	if closed.Status != constants.StatusClosed || !closed.PointsAwarded {
		t.Fatalf("unexpected issue after false alarm: %+v", closed)
	}

	got := env.reload(t, alice)
	if got.CivicPoints != -190 || got.WeeklyPoints != -190 {
		t.Fatalf("expected -190 after clawback, got %d/%d", got.CivicPoints, got.WeeklyPoints)
	}

	entries, _ := env.store.AuditLogs.ListByIssue(ctx, issue.ID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	var clawback *gormModels.AuditLogEntry
	for i := range entries {
		if entries[i].Action == constants.AuditFalseAlarm {
			clawback = &entries[i]
		}
	}
	if clawback == nil || clawback.PointsChange == nil || *clawback.PointsChange != -200 {
		t.Fatalf("unexpected false alarm entry: %+v", clawback)
	}
}

func TestAdminActions_Guards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	otherAdmin := env.createUser(t, "oakadmin", constants.RoleAdmin, "oak", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	if _, err := env.svc.ApproveIssue(ctx, nil, issue.ID); apperrors.KindOf(err) != apperrors.KindUnauthenticated {
		t.Fatalf("nil actor: expected UNAUTHENTICATED, got %v", err)
	}
	if _, err := env.svc.ApproveIssue(ctx, claimsFor(alice), issue.ID); apperrors.CodeOf(err) != apperrors.CodeWrongRole {
		t.Fatalf("member approving: expected WRONG_ROLE, got %v", err)
	}
	if _, err := env.svc.ApproveIssue(ctx, claimsFor(otherAdmin), issue.ID); apperrors.CodeOf(err) != apperrors.CodeWrongCommunity {
		t.Fatalf("other community: expected WRONG_COMMUNITY, got %v", err)
	}
	if _, err := env.svc.ApproveIssue(ctx, claimsFor(admin), "missing"); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("missing issue: expected NOT_FOUND, got %v", err)
	}
	if _, err := env.svc.MarkInProgress(ctx, claimsFor(admin), issue.ID); apperrors.KindOf(err) != apperrors.KindInvalidTransition {
		t.Fatalf("in-progress from pending: expected INVALID_TRANSITION, got %v", err)
	}

	got, _ := env.store.Issues.GetByID(ctx, issue.ID)
	if got.Status != constants.StatusPendingApproval {
		t.Fatalf("refused actions must not mutate, status is %s", got.Status)
	}
}

func TestCloseIssue_MovesNoPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	if _, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID); err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}
	closed, err := env.svc.CloseIssue(ctx, claimsFor(admin), issue.ID)
	if err != nil {
		t.Fatalf("CloseIssue: %v", err)
	}
	if closed.Status != constants.StatusClosed {
		t.Fatalf("expected CLOSED, got %s", closed.Status)
	}
	if got := env.reload(t, alice); got.CivicPoints != 10 {
		t.Fatalf("close must not move points, got %d", got.CivicPoints)
	}
	if _, err := env.svc.CloseIssue(ctx, claimsFor(admin), issue.ID); apperrors.KindOf(err) != apperrors.KindInvalidTransition {
		t.Fatalf("closing a closed issue: expected INVALID_TRANSITION, got %v", err)
	}
}

func TestVerifyExistence_SelfVerificationAlwaysForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	// Still pending, and standing right on it: the self check comes first.
	for _, at := range []geo.Coordinate{origin, north(5000)} {
		_, err := env.svc.VerifyExistence(ctx, claimsFor(alice), issue.ID, at)
		if apperrors.CodeOf(err) != apperrors.CodeSelfVerification {
			t.Fatalf("expected SELF_VERIFICATION, got %v", err)
		}
	}
}

func TestVerifyExistence_RadiusAndPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	victor := env.createUser(t, "victor", constants.RoleUser, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	if _, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID); err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}

	_, err := env.svc.VerifyExistence(ctx, claimsFor(victor), issue.ID, geo.Coordinate{Latitude: 40.7200, Longitude: -74.0060})
	if apperrors.KindOf(err) != apperrors.KindOutOfRadius {
		t.Fatalf("~800 m away: expected OUT_OF_RADIUS, got %v", err)
	}

	verified, err := env.svc.VerifyExistence(ctx, claimsFor(victor), issue.ID, geo.Coordinate{Latitude: 40.7135, Longitude: -74.0060})
	if err != nil {
		t.Fatalf("~78 m away should verify: %v", err)
	}
	if verified.Status != constants.StatusVerifiedByNeighbor || verified.VerifiedAt == nil {
		t.Fatalf("unexpected verified issue: %+v", verified)
	}
	if verified.VerifierID == nil || *verified.VerifierID != victor.ID || verified.AssignedVerifierID != nil {
		t.Fatalf("verifier fields not updated: %+v", verified)
	}
	if got := env.reload(t, victor); got.CivicPoints != 5 || got.WeeklyPoints != 5 {
		t.Fatalf("expected +5 for verifier, got %d/%d", got.CivicPoints, got.WeeklyPoints)
	}

	if n := env.notifier.forUser(admin.ID); len(n) != 1 || n[0].Type != constants.NotificationAdminInfo {
		t.Fatalf("expected admin info notice, got %+v", n)
	}
}

func TestVerifyExistence_AssignedVerifierIsExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", &geo.Coordinate{Latitude: origin.Latitude, Longitude: origin.Longitude})
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	nearLoc, farLoc := north(30), north(100)
	near := env.createUser(t, "near", constants.RoleUser, "elm", &nearLoc)
	far := env.createUser(t, "far", constants.RoleUser, "elm", &farLoc)
	outLoc := north(2000)
	env.createUser(t, "out", constants.RoleUser, "elm", &outLoc)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	approved, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID)
	if err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}
	if approved.AssignedVerifierID == nil || *approved.AssignedVerifierID != near.ID {
		t.Fatalf("expected %s assigned, got %v", near.ID, approved.AssignedVerifierID)
	}
	if n := env.notifier.forUser(near.ID); len(n) != 1 || n[0].Type != constants.NotificationVerifyRequest {
		t.Fatalf("expected verify request for nearest, got %+v", n)
	}

	_, err = env.svc.VerifyExistence(ctx, claimsFor(far), issue.ID, farLoc)
	if apperrors.CodeOf(err) != apperrors.CodeNotAssignedVerifier {
		t.Fatalf("expected NOT_ASSIGNED_VERIFIER, got %v", err)
	}

	if _, err := env.svc.VerifyExistence(ctx, claimsFor(near), issue.ID, nearLoc); err != nil {
		t.Fatalf("assigned verifier should succeed: %v", err)
	}
}

func TestVerifyExistence_LateBindingNearest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	a := env.createUser(t, "a", constants.RoleUser, "elm", nil)
	b := env.createUser(t, "b", constants.RoleUser, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue

	approved, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID)
	if err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}
	if approved.AssignedVerifierID != nil {
		t.Fatal("nobody is located, nobody should be assigned")
	}

	aLoc, bLoc := north(50), north(200)
	env.store.Users.UpdateLocation(ctx, a.ID, aLoc.Latitude, aLoc.Longitude, approved.CreatedAt)
	env.store.Users.UpdateLocation(ctx, b.ID, bLoc.Latitude, bLoc.Longitude, approved.CreatedAt)

	_, err = env.svc.VerifyExistence(ctx, claimsFor(b), issue.ID, bLoc)
	if apperrors.CodeOf(err) != apperrors.CodeNotNearestVerifier {
		t.Fatalf("expected NOT_NEAREST_VERIFIER, got %v", err)
	}
	if _, err := env.svc.VerifyExistence(ctx, claimsFor(a), issue.ID, aLoc); err != nil {
		t.Fatalf("nearest should verify: %v", err)
	}
}

func TestVerifyExistence_AlreadyVerified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	victor := env.createUser(t, "victor", constants.RoleUser, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue
	if _, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID); err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}

	prior := &gormModels.Verification{IssueID: issue.ID, UserID: victor.ID, Kind: constants.VerificationExistence, Verified: true}
	if err := env.store.Verifications.Create(ctx, prior); err != nil {
		t.Fatalf("seed verification: %v", err)
	}

	_, err := env.svc.VerifyExistence(ctx, claimsFor(victor), issue.ID, origin)
	if apperrors.KindOf(err) != apperrors.KindAlreadyVerified {
		t.Fatalf("expected ALREADY_VERIFIED, got %v", err)
	}
	if got := apperrors.HTTPStatus(apperrors.KindOf(err)); got != 409 {
		t.Fatalf("expected 409, got %d", got)
	}

	still, err := env.store.Issues.GetByID(ctx, issue.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if still.Status != constants.StatusApproved || still.VerifierID != nil {
		t.Fatalf("issue should be untouched, got %+v", still)
	}
	if got := env.reload(t, victor); got.CivicPoints != 0 {
		t.Fatalf("no points for a repeated verification, got %d", got.CivicPoints)
	}
}

func TestVerification_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.MaxVerificationsPerWindow = 1
	env.svc = NewIssueLifecycleService(env.store, env.cfg, env.notifier, env.metrics)
	ctx := context.Background()

	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	victor := env.createUser(t, "victor", constants.RoleUser, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue
	if _, err := env.svc.ApproveIssue(ctx, claimsFor(admin), issue.ID); err != nil {
		t.Fatalf("ApproveIssue: %v", err)
	}

	other := &gormModels.Issue{
		Title: "Old", Description: "old", Latitude: 0, Longitude: 0, Urgency: constants.UrgencyNormal,
		CommunityName: "elm", ReporterID: alice.ID, Status: constants.StatusApproved,
	}
	env.store.Issues.Create(ctx, other)
	env.store.Verifications.Create(ctx, &gormModels.Verification{IssueID: other.ID, UserID: victor.ID, Kind: constants.VerificationExistence, Verified: true})

	_, err := env.svc.VerifyExistence(ctx, claimsFor(victor), issue.ID, origin)
	if apperrors.KindOf(err) != apperrors.KindRateLimited {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	admin := env.createUser(t, "admin", constants.RoleAdmin, "elm", nil)
	victor := env.createUser(t, "victor", constants.RoleUser, "elm", nil)
	issue := env.report(t, alice, origin, "Pothole", "Deep hole").Issue
	adminClaims := claimsFor(admin)

	steps := []func() error{
		func() error { _, err := env.svc.ApproveIssue(ctx, adminClaims, issue.ID); return err },
		func() error { _, err := env.svc.VerifyExistence(ctx, claimsFor(victor), issue.ID, north(20)); return err },
		func() error { _, err := env.svc.MarkInProgress(ctx, adminClaims, issue.ID); return err },
		func() error { _, err := env.svc.MarkResolved(ctx, adminClaims, issue.ID); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	// Resolution cannot be confirmed by the reporter.
	if _, err := env.svc.VerifyResolution(ctx, claimsFor(alice), issue.ID, origin); apperrors.CodeOf(err) != apperrors.CodeSelfVerification {
		t.Fatalf("expected SELF_VERIFICATION, got %v", err)
	}

	closed, err := env.svc.VerifyResolution(ctx, claimsFor(victor), issue.ID, north(20))
	if err != nil {
		t.Fatalf("VerifyResolution: %v", err)
	}
	if closed.Status != constants.StatusClosed || closed.ClosedAt == nil || closed.InProgressAt == nil || closed.ResolvedAt == nil {
		t.Fatalf("unexpected closed issue: %+v", closed)
	}

	if got := env.reload(t, alice); got.CivicPoints != 10 {
		t.Fatalf("reporter expected 10, got %d", got.CivicPoints)
	}
	if got := env.reload(t, victor); got.CivicPoints != 10 {
		t.Fatalf("verifier expected 5+5, got %d", got.CivicPoints)
	}

	entries, err := env.svc.ListAuditLog(ctx, adminClaims, issue.ID)
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 audit entries, got %d", len(entries))
	}

	detail, err := env.svc.GetIssue(ctx, claimsFor(victor), issue.ID)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if len(detail.Verifications) != 2 {
		t.Fatalf("expected 2 verifications, got %d", len(detail.Verifications))
	}

	if _, err := env.svc.ListAuditLog(ctx, claimsFor(victor), issue.ID); apperrors.CodeOf(err) != apperrors.CodeWrongRole {
		t.Fatalf("members cannot read the audit log, got %v", err)
	}
}

func TestListIssues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", constants.RoleUser, "elm", nil)
	oscar := env.createUser(t, "oscar", constants.RoleUser, "oak", nil)
	env.report(t, alice, origin, "Pothole", "Deep hole")
	env.report(t, oscar, origin, "Pothole", "Deep hole")

	list, err := env.svc.ListIssues(ctx, claimsFor(alice), "")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListIssues = %d, %v", len(list), err)
	}
	list, _ = env.svc.ListIssues(ctx, claimsFor(alice), "approved")
	if len(list) != 0 {
		t.Fatalf("expected no approved issues, got %d", len(list))
	}
	if _, err := env.svc.ListIssues(ctx, claimsFor(alice), "bogus"); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}
