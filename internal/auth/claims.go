package auth

import (
	"civic-commons/townhall/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the authenticated actor as seen by handlers and services.
type UserClaims interface {
	UserID() string
	Role() string
	CommunityName() string
	Source() string
}

// JWTClaims is both the signed token payload and the UserClaims carried on the request context.
type JWTClaims struct {
	UserUUID  string         `json:"uid"`
	RoleValue constants.Role `json:"role"`
	Community string         `json:"community"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) UserID() string        { return c.UserUUID }
func (c *JWTClaims) Role() string          { return c.RoleValue.String() }
func (c *JWTClaims) CommunityName() string { return c.Community }
func (c *JWTClaims) Source() string        { return "JWT" }
