package services

import (
	"context"
	"errors"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db/repositories"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

type issueLoader interface {
	GetByID(ctx context.Context, id string) (*gormModels.Issue, error)
}

// AccessGuard is the single entry check for every issue operation:
// identity, then role, then a fresh tenant comparison against the stored issue.
type AccessGuard struct {
	issues issueLoader
}

func NewAccessGuard(issues issueLoader) *AccessGuard {
	return &AccessGuard{issues: issues}
}

func (g *AccessGuard) Authenticate(actor auth.UserClaims) error {
	if actor == nil || actor.UserID() == "" {
		return apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	return nil
}

// RequireRole checks identity and role.
func (g *AccessGuard) RequireRole(actor auth.UserClaims, role constants.Role) error {
	if err := g.Authenticate(actor); err != nil {
		return err
	}
	if actor.Role() != role.String() {
		if role == constants.RoleAdmin {
			return apperrors.Forbidden(apperrors.CodeWrongRole, constants.MsgAdminRequired)
		}
		return apperrors.Forbidden(apperrors.CodeWrongRole, constants.MsgMemberRequired)
	}
	return nil
}

// GuardIssue runs all three checks and returns the freshly loaded issue.
// A nil role means any authenticated member of the community.
func (g *AccessGuard) GuardIssue(ctx context.Context, actor auth.UserClaims, role *constants.Role, issueID string) (*gormModels.Issue, error) {
	if role != nil {
		if err := g.RequireRole(actor, *role); err != nil {
			return nil, err
		}
	} else if err := g.Authenticate(actor); err != nil {
		return nil, err
	}

	issue, err := g.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(constants.MsgIssueNotFound)
		}
		return nil, apperrors.Internal("failed to load issue", err)
	}
	if issue.CommunityName != actor.CommunityName() {
		return nil, apperrors.Forbidden(apperrors.CodeWrongCommunity, constants.MsgWrongCommunity)
	}
	return issue, nil
}

func rolePtr(r constants.Role) *constants.Role { return &r }

var (
	adminOnly  = rolePtr(constants.RoleAdmin)
	memberOnly = rolePtr(constants.RoleUser)
)
