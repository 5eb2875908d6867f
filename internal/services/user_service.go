package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"civic-commons/townhall/internal/apperrors"
	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db/repositories"
	"civic-commons/townhall/internal/geo"
	"civic-commons/townhall/internal/logging"
	gormModels "civic-commons/townhall/internal/models/gorm"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	HouseAddress  string
	CommunityName string
	Role          constants.Role
}

func (in *RegisterInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.HouseAddress = strings.TrimSpace(in.HouseAddress)
	in.CommunityName = strings.TrimSpace(in.CommunityName)
	if in.Role == "" {
		in.Role = constants.RoleUser
	}

	switch {
	case utf8.RuneCountInString(in.Name) < 2:
		return apperrors.Validation("name must be at least 2 characters")
	case in.Email == "":
		return apperrors.Validation("email is required")
	case len(in.Password) < 6:
		return apperrors.Validation("password must be at least 6 characters")
	case in.CommunityName == "":
		return apperrors.Validation("community name is required")
	case !in.Role.Valid():
		return apperrors.Validation(fmt.Sprintf("unknown role %q", string(in.Role)))
	case in.Role == constants.RoleUser && in.HouseAddress == "":
		return apperrors.Validation("house address is required for community members")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperrors.Validation("email is not valid")
	}
	return nil
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *gormModels.User
}

// UserService covers accounts, location pings and the notification inbox.
type UserService struct {
	store    *repositories.Store
	tokens   *auth.TokenService
	hashCost int
	now      func() time.Time
}

func NewUserService(store *repositories.Store, tokens *auth.TokenService) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the account. A community gets at most one ADMIN; the check and the
// insert share a transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &gormModels.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  string(hash),
		CommunityName: in.CommunityName,
		Role:          in.Role,
	}
	if in.HouseAddress != "" {
		addr := in.HouseAddress
		user.HouseAddress = &addr
	}

	err = s.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		if in.Role == constants.RoleAdmin {
			exists, err := tx.Users.AdminExists(ctx, in.CommunityName)
			if err != nil {
				return err
			}
			if exists {
				return apperrors.Conflict(constants.MsgAdminExists)
			}
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return apperrors.Conflict(constants.MsgEmailTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, apperrors.Internal("failed to register user", err)
	}

	logging.Info("User registered", "user_id", user.ID, "role", user.Role, "community", user.CommunityName)
	return s.issueToken(user)
}

// Login fails with the same message whatever part of the credentials is wrong.
func (s *UserService) Login(ctx context.Context, email, password, communityName string) (*AuthResult, error) {
	invalid := apperrors.Unauthenticated(constants.MsgInvalidCredentials)

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalid
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, invalid
	}
	if !strings.EqualFold(strings.TrimSpace(communityName), strings.TrimSpace(user.CommunityName)) {
		return nil, invalid
	}
	return s.issueToken(user)
}

func (s *UserService) issueToken(user *gormModels.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, user.CommunityName)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *UserService) Me(ctx context.Context, actor auth.UserClaims) (*gormModels.User, error) {
	if actor == nil || actor.UserID() == "" {
		return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	user, err := s.store.Users.GetByID(ctx, actor.UserID())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(constants.MsgUserNotFound)
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}

// UpdateLocation stores the actor's last known position, which feeds verifier assignment.
func (s *UserService) UpdateLocation(ctx context.Context, actor auth.UserClaims, at geo.Coordinate) (*gormModels.User, error) {
	if actor == nil || actor.UserID() == "" {
		return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	if err := at.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := s.store.Users.UpdateLocation(ctx, actor.UserID(), at.Latitude, at.Longitude, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(constants.MsgUserNotFound)
		}
		return nil, apperrors.Internal("failed to update location", err)
	}
	return s.Me(ctx, actor)
}

func (s *UserService) ListNotifications(ctx context.Context, actor auth.UserClaims) ([]gormModels.Notification, error) {
	if actor == nil || actor.UserID() == "" {
		return nil, apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	list, err := s.store.Notifications.ListForUser(ctx, actor.UserID(), constants.NotificationListLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list notifications", err)
	}
	return list, nil
}

func (s *UserService) MarkNotificationRead(ctx context.Context, actor auth.UserClaims, notificationID string) error {
	if actor == nil || actor.UserID() == "" {
		return apperrors.Unauthenticated(constants.MsgUnauthenticated)
	}
	n, err := s.store.Notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound(constants.MsgNotificationNotFound)
		}
		return apperrors.Internal("failed to load notification", err)
	}
	if n.UserID != actor.UserID() {
		return apperrors.Forbidden(apperrors.CodeNotOwner, "You can only update your own notifications")
	}
	if err := s.store.Notifications.MarkRead(ctx, n.ID, actor.UserID()); err != nil {
		return apperrors.Internal("failed to mark notification read", err)
	}
	return nil
}
