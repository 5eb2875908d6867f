package requests

import (
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/services"
)

type RegisterUserRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	HouseAddress  string `json:"houseAddress"`
	CommunityName string `json:"communityName"`
	Role          string `json:"role"`
}

// ToInput hands field validation to the service, which owns the rules.
func (r *RegisterUserRequest) ToInput() services.RegisterInput {
	return services.RegisterInput{
		Name:          r.Name,
		Email:         r.Email,
		Password:      r.Password,
		HouseAddress:  r.HouseAddress,
		CommunityName: r.CommunityName,
		Role:          constants.Role(r.Role),
	}
}

type LoginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	CommunityName string `json:"communityName"`
}
