package auth

import (
	"github.com/m04kA/PetBoardingService/internal/service/auth/models"
)

// RegisterRequest HTTP request model
type RegisterRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Name            string  `json:"name"`
	Phone           *string `json:"phone,omitempty"`
	ReferralCode    *string `json:"referralCode,omitempty"`
}

// LoginRequest HTTP request model
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserEnvelope ответ {success, user}
type UserEnvelope struct {
	Success bool                 `json:"success"`
	User    *models.UserResponse `json:"user,omitempty"`
}

func (r *RegisterRequest) ToServiceRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Name:            r.Name,
		Phone:           r.Phone,
		ReferredBy:      r.ReferralCode,
	}
}
