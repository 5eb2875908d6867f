package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db/repositories"
	"civic-commons/townhall/internal/geo"
	"civic-commons/townhall/internal/lifecycle"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/metrics"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

type ReportIssueInput struct {
	Coordinate  geo.Coordinate
	Title       string
	Description string
	ImageURL    *string
	Urgency     constants.Urgency
}

func (in *ReportIssueInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Title == "":
		return apperrors.Validation("title is required")
	case utf8.RuneCountInString(in.Title) > maxTitleLength:
		return apperrors.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	case in.Description == "":
		return apperrors.Validation("description is required")
	case utf8.RuneCountInString(in.Description) > maxDescriptionLength:
		return apperrors.Validation(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	if err := in.Coordinate.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}

	if in.Urgency == "" {
		in.Urgency = constants.UrgencyNormal
	} else if !in.Urgency.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown urgency %q", string(in.Urgency)))
	}

	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	return nil
}

type ReportResult struct {
	Created bool
	Issue   *gormModels.Issue
}

type IssueDetail struct {
	Issue         *gormModels.Issue
	Verifications []gormModels.Verification
}

// IssueLifecycleService owns every write to an issue: reports, the admin transitions and
// neighbor verifications. Each transition commits points, status, audit entry and any
// verification row together, then notifies outside the transaction.
type IssueLifecycleService struct {
	store      *repositories.Store
	guard      *AccessGuard
	limiter    *RateLimiter
	duplicates *DuplicateResolver
	verifiers  *VerifierAssigner
	notifier   Notifier
	metrics    *metrics.MetricsRegistry
	now        func() time.Time
}

func NewIssueLifecycleService(store *repositories.Store, cfg *config.Config, notifier Notifier, m *metrics.MetricsRegistry) *IssueLifecycleService {
	return &IssueLifecycleService{
		store:      store,
		guard:      NewAccessGuard(store.Issues),
		limiter:    NewRateLimiter(store.Issues, store.Verifications, cfg, m),
		duplicates: NewDuplicateResolver(cfg.DuplicateRadiusMeters),
		verifiers:  NewVerifierAssigner(cfg.VerificationRadiusMeters),
		notifier:   notifier,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ReportIssue merges the report into a nearby similar open issue, or creates a new one.
func (s *IssueLifecycleService) ReportIssue(ctx context.Context, actor auth.UserClaims, in ReportIssueInput) (*ReportResult, error) {
	if err := s.guard.RequireRole(actor, constants.RoleUser); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	reporter, err := s.loadActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.CheckIssueQuota(ctx, reporter.ID); err != nil {
		return nil, err
	}

	candidates, err := s.store.Issues.ListOpenInCommunity(ctx, reporter.CommunityName)
	if err != nil {
		return nil, apperrors.Internal("failed to load open issues", err)
	}

	if target := s.duplicates.FindMergeTarget(candidates, in.Coordinate, in.Title+" "+in.Description); target != nil {
		if err := s.store.Issues.IncrementSupport(ctx, target.ID, 1); err != nil {
			return nil, apperrors.Internal("failed to merge report", err)
		}
		merged, err := s.store.Issues.GetByID(ctx, target.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to reload merged issue", err)
		}
		s.metrics.RecordReport("merged")
		logging.Info("Report merged into existing issue",
			"issue_id", merged.ID, "reporter_id", reporter.ID, "support_count", merged.SupportCount)
		return &ReportResult{Created: false, Issue: merged}, nil
	}

	issue := &gormModels.Issue{
		Title:         in.Title,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		Latitude:      in.Coordinate.Latitude,
		Longitude:     in.Coordinate.Longitude,
		Urgency:       in.Urgency,
		CommunityName: reporter.CommunityName,
		ReporterID:    reporter.ID,
		Status:        constants.StatusPendingApproval,
		SupportCount:  1,
	}
	if err := s.store.Issues.Create(ctx, issue); err != nil {
		return nil, apperrors.Internal("failed to create issue", err)
	}
	s.metrics.RecordReport("created")
	logging.Info("Issue reported", "issue_id", issue.ID, "reporter_id", reporter.ID, "community", issue.CommunityName)
	return &ReportResult{Created: true, Issue: issue}, nil
}

func (s *IssueLifecycleService) ApproveIssue(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error) {
	return s.runAdminAction(ctx, actor, issueID, constants.AuditApprove)
}

func (s *IssueLifecycleService) RejectIssue(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error) {
	return s.runAdminAction(ctx, actor, issueID, constants.AuditReject)
}

func (s *IssueLifecycleService) MarkInProgress(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error) {
	return s.runAdminAction(ctx, actor, issueID, constants.AuditMarkInProgress)
}

func (s *IssueLifecycleService) MarkResolved(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error) {
	return s.runAdminAction(ctx, actor, issueID, constants.AuditMarkResolved)
}

func (s *IssueLifecycleService) CloseIssue(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error) {
	return s.runAdminAction(ctx, actor, issueID, constants.AuditClose)
}

func (s *IssueLifecycleService) MarkFalseAlarm(ctx context.Context, actor auth.UserClaims, issueID string) (*gormModels.Issue, error) {
	return s.runAdminAction(ctx, actor, issueID, constants.AuditFalseAlarm)
}

func (s *IssueLifecycleService) VerifyExistence(ctx context.Context, actor auth.UserClaims, issueID string, at geo.Coordinate) (*gormModels.Issue, error) {
	return s.verify(ctx, actor, issueID, at, constants.VerificationExistence)
}

func (s *IssueLifecycleService) VerifyResolution(ctx context.Context, actor auth.UserClaims, issueID string, at geo.Coordinate) (*gormModels.Issue, error) {
	return s.verify(ctx, actor, issueID, at, constants.VerificationResolution)
}

func (s *IssueLifecycleService) runAdminAction(ctx context.Context, actor auth.UserClaims, issueID string, action constants.AuditAction) (*gormModels.Issue, error) {
	issue, err := s.guard.GuardIssue(ctx, actor, adminOnly, issueID)
	if err != nil {
		s.recordOutcome(action, err)
		return nil, err
	}

	fields := map[string]interface{}{}
	if action == constants.AuditApprove {
		fields["admin_id"] = actor.UserID()
	}

	out, err := s.applyTransition(ctx, issue, transitionPlan{
		action:         action,
		actorID:        actor.UserID(),
		fields:         fields,
		assignVerifier: action == constants.AuditApprove,
	})
	s.recordOutcome(action, err)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, s.noticesFor(action, out)...)
	return out.issue, nil
}

func (s *IssueLifecycleService) verify(ctx context.Context, actor auth.UserClaims, issueID string, at geo.Coordinate, kind constants.VerificationKind) (*gormModels.Issue, error) {
	action := constants.AuditUserVerifyExistence
	alreadyMsg := constants.MsgAlreadyVerified
	if kind == constants.VerificationResolution {
		action = constants.AuditUserVerifyResolutionClose
		alreadyMsg = constants.MsgAlreadyVerifiedFix
	}

	out, err := s.checkAndVerify(ctx, actor, issueID, at, kind, action, alreadyMsg)
	s.recordOutcome(action, err)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, s.noticesFor(action, out)...)
	return out.issue, nil
}

func (s *IssueLifecycleService) checkAndVerify(
	ctx context.Context,
	actor auth.UserClaims,
	issueID string,
	at geo.Coordinate,
	kind constants.VerificationKind,
	action constants.AuditAction,
	alreadyMsg string,
) (*transitionOutcome, error) {
	issue, err := s.guard.GuardIssue(ctx, actor, memberOnly, issueID)
	if err != nil {
		return nil, err
	}
	if issue.ReporterID == actor.UserID() {
		return nil, apperrors.Forbidden(apperrors.CodeSelfVerification, constants.MsgSelfVerification)
	}
	if _, msg, ok := lifecycle.CheckAction(action, issue.Status); !ok {
		return nil, apperrors.InvalidTransition(msg)
	}
	if err := at.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := s.limiter.CheckVerificationQuota(ctx, actor.UserID()); err != nil {
		return nil, err
	}

	exists, err := s.store.Verifications.Exists(ctx, issue.ID, actor.UserID(), kind)
	if err != nil {
		return nil, apperrors.Internal("failed to check verification", err)
	}
	if exists {
		return nil, apperrors.AlreadyVerified(alreadyMsg)
	}

	dist, err := s.verifiers.CheckRadius(issue, at)
	if err != nil {
		return nil, err
	}
	if kind == constants.VerificationExistence {
		candidates, err := s.store.Users.ListLocatedMembers(ctx, issue.CommunityName, issue.ReporterID)
		if err != nil {
			return nil, apperrors.Internal("failed to load verifier candidates", err)
		}
		if err := s.verifiers.CheckExclusivity(issue, actor.UserID(), dist, candidates); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if kind == constants.VerificationExistence {
		fields["verifier_id"] = actor.UserID()
		fields["assigned_verifier_id"] = nil
	}

	return s.applyTransition(ctx, issue, transitionPlan{
		action:  action,
		actorID: actor.UserID(),
		fields:  fields,
		inTx: func(tx *repositories.Store) error {
			err := tx.Verifications.Create(ctx, &gormModels.Verification{
				IssueID:  issue.ID,
				UserID:   actor.UserID(),
				Kind:     kind,
				Verified: true,
			})
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.AlreadyVerified(alreadyMsg)
			}
			return err
		},
	})
}

type transitionPlan struct {
	action  constants.AuditAction
	actorID string
	// fields are written alongside the status and milestone.
	fields map[string]interface{}
	// inTx runs after the status update, inside the same transaction.
	inTx           func(tx *repositories.Store) error
	assignVerifier bool
}

type transitionOutcome struct {
	from     constants.IssueStatus
	issue    *gormModels.Issue
	award    lifecycle.Award
	assigned *gormModels.User
}

// applyTransition is the shared transaction for all eight actions. The status update is
// guarded on the status read by the caller, so a concurrent transition makes it match no
// row and the whole unit rolls back as an invalid transition.
func (s *IssueLifecycleService) applyTransition(ctx context.Context, issue *gormModels.Issue, plan transitionPlan) (*transitionOutcome, error) {
	from := issue.Status
	to, msg, ok := lifecycle.CheckAction(plan.action, from)
	if !ok {
		return nil, apperrors.InvalidTransition(msg)
	}
	rule, _ := lifecycle.RuleFor(plan.action)

	fields := map[string]interface{}{rule.Milestone: s.now()}
	for k, v := range plan.fields {
		fields[k] = v
	}

	out := &transitionOutcome{from: from}
	err := s.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		moved, err := tx.Issues.TransitionStatus(ctx, issue.ID, from, to, fields)
		if err != nil {
			return err
		}
		if !moved {
			current, err := tx.Issues.GetByID(ctx, issue.ID)
			if err != nil {
				return err
			}
			_, msg, _ := lifecycle.CheckAction(plan.action, current.Status)
			if msg == "" {
				msg = lifecycle.TransitionError(current.Status, to)
			}
			return apperrors.InvalidTransition(msg)
		}

		fresh, err := tx.Issues.GetByID(ctx, issue.ID)
		if err != nil {
			return err
		}

		award := lifecycle.PointsFor(plan.action, from, to, fresh.PointsAwarded)
		if award.MarkAwarded {
			won, err := tx.Issues.MarkPointsAwarded(ctx, issue.ID)
			if err != nil {
				return err
			}
			if !won {
				award = lifecycle.Award{}
			}
		}
		if !award.IsZero() {
			recipient := fresh.ReporterID
			if award.Recipient == lifecycle.RecipientVerifier {
				recipient = plan.actorID
			}
			if err := tx.Users.AddPoints(ctx, recipient, award.Points); err != nil {
				return err
			}
		}

		if plan.inTx != nil {
			if err := plan.inTx(tx); err != nil {
				return err
			}
		}

		if plan.assignVerifier {
			candidates, err := tx.Users.ListLocatedMembers(ctx, fresh.CommunityName, fresh.ReporterID)
			if err != nil {
				return err
			}
			if nearest, _ := s.verifiers.Nearest(candidates, fresh.Location()); nearest != nil {
				if err := tx.Issues.SetAssignedVerifier(ctx, issue.ID, &nearest.ID); err != nil {
					return err
				}
				out.assigned = nearest
			}
		}

		entry := &gormModels.AuditLogEntry{
			IssueID:     issue.ID,
			PerformedBy: plan.actorID,
			Action:      plan.action,
			FromStatus:  from,
			ToStatus:    to,
		}
		if !award.IsZero() {
			points := award.Points
			entry.PointsChange = &points
		}
		if err := tx.AuditLogs.Append(ctx, entry); err != nil {
			return err
		}

		out.award = award
		out.issue, err = tx.Issues.GetByID(ctx, issue.ID)
		return err
	})
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		logging.Error("Issue transition failed", "issue_id", issue.ID, "action", plan.action, "error", err)
		return nil, apperrors.Internal("issue transition failed", err)
	}

	s.metrics.RecordPoints(out.award.Points)
	logging.Info("Issue transitioned",
		"issue_id", issue.ID, "action", plan.action, "from", from, "to", to,
		"actor_id", plan.actorID, "points", out.award.Points)
	return out, nil
}

// noticesFor builds the post-commit messages for the counterpart of an action.
func (s *IssueLifecycleService) noticesFor(action constants.AuditAction, out *transitionOutcome) []Notice {
	issue := out.issue
	tag := fmt.Sprintf("%s:%s", issue.ID, action)
	toReporter := func(msg string) Notice {
		return Notice{UserID: issue.ReporterID, IssueID: issue.ID, Type: constants.NotificationStatusUpdate, Message: msg, Tag: tag}
	}
	toAdmin := func(msg string) []Notice {
		if issue.AdminID == nil {
			return nil
		}
		return []Notice{{UserID: *issue.AdminID, IssueID: issue.ID, Type: constants.NotificationAdminInfo, Message: msg, Tag: tag + ":admin"}}
	}

	switch action {
	case constants.AuditApprove:
		msg := fmt.Sprintf(constants.MsgReporterApprovedNoPts, issue.Title)
		if out.award.Points > 0 {
			msg = fmt.Sprintf(constants.MsgReporterApproved, issue.Title, out.award.Points)
		}
		notices := []Notice{toReporter(msg)}
		if out.assigned != nil {
			notices = append(notices, Notice{
				UserID:  out.assigned.ID,
				IssueID: issue.ID,
				Type:    constants.NotificationVerifyRequest,
				Message: fmt.Sprintf(constants.MsgVerifyRequest, issue.Title),
				Tag:     tag + ":verify",
			})
		}
		return notices
	case constants.AuditReject:
		if out.award.Points < 0 {
			return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterPenalized, issue.Title, out.award.Points))}
		}
		return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterRejected, issue.Title))}
	case constants.AuditFalseAlarm:
		if out.award.Points < 0 {
			return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterPenalized, issue.Title, out.award.Points))}
		}
		return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterFalseAlarm, issue.Title))}
	case constants.AuditMarkInProgress:
		return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterInProgress, issue.Title))}
	case constants.AuditMarkResolved:
		return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterResolved, issue.Title))}
	case constants.AuditClose:
		return []Notice{toReporter(fmt.Sprintf(constants.MsgReporterClosed, issue.Title))}
	case constants.AuditUserVerifyExistence:
		return append(toAdmin(constants.MsgAdminVerified), toReporter(fmt.Sprintf(constants.MsgReporterVerified, issue.Title)))
	case constants.AuditUserVerifyResolutionClose:
		return append(toAdmin(constants.MsgAdminResolutionClosed), toReporter(fmt.Sprintf(constants.MsgReporterFixVerified, issue.Title)))
	default:
		return nil
	}
}

func (s *IssueLifecycleService) recordOutcome(action constants.AuditAction, err error) {
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.KindOf(err)))
	}
	s.metrics.RecordTransition(string(action), outcome)
}

// loadActor re-reads the actor so a token for a deleted account cannot act.
func (s *IssueLifecycleService) loadActor(ctx context.Context, actor auth.UserClaims) (*gormModels.User, error) {
	user, err := s.store.Users.GetByID(ctx, actor.UserID())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

// ListIssues returns the actor's community issues, newest first.
func (s *IssueLifecycleService) ListIssues(ctx context.Context, actor auth.UserClaims, status string) ([]gormModels.Issue, error) {
	if err := s.guard.Authenticate(actor); err != nil {
		return nil, err
	}
	var filter *constants.IssueStatus
	if status != "" {
		st := constants.IssueStatus(strings.ToUpper(status))
		if !st.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", status))
		}
		filter = &st
	}
	issues, err := s.store.Issues.ListByCommunity(ctx, actor.CommunityName(), filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list issues", err)
	}
	return issues, nil
}

func (s *IssueLifecycleService) GetIssue(ctx context.Context, actor auth.UserClaims, issueID string) (*IssueDetail, error) {
	issue, err := s.guard.GuardIssue(ctx, actor, nil, issueID)
	if err != nil {
		return nil, err
	}
	verifications, err := s.store.Verifications.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list verifications", err)
	}
	return &IssueDetail{Issue: issue, Verifications: verifications}, nil
}

func (s *IssueLifecycleService) ListAuditLog(ctx context.Context, actor auth.UserClaims, issueID string) ([]gormModels.AuditLogEntry, error) {
	issue, err := s.guard.GuardIssue(ctx, actor, adminOnly, issueID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.AuditLogs.ListByIssue(ctx, issue.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list audit log", err)
	}
	return entries, nil
}
