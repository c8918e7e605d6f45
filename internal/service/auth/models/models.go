package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/infra/security"
)

// RegisterRequest данные регистрации
type RegisterRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Phone           *string
	ReferredBy      *string
}

// LoginRequest данные входа
type LoginRequest struct {
	Email    string
	Password string
}

// UserResponse публичные данные пользователя
type UserResponse struct {
	ID            int64             `json:"id"`
	Email         string            `json:"email"`
	Name          string            `json:"name"`
	Phone         *string           `json:"phone,omitempty"`
	Role          domain.UserRole   `json:"role"`
	Status        domain.UserStatus `json:"status"`
	LoyaltyPoints int               `json:"loyaltyPoints"`
	ReferralCode  string            `json:"referralCode"`
	TotalBookings int               `json:"totalBookings"`
	TotalSpent    float64           `json:"totalSpent"`
	LastLoginAt   *time.Time        `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// AuthResult пользователь и выпущенные токены
type AuthResult struct {
	User   *UserResponse
	Tokens *security.TokenPair
}

func FromDomainUser(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Phone:         u.Phone,
		Role:          u.Role,
		Status:        u.Status,
		LoyaltyPoints: u.LoyaltyPoints,
		ReferralCode:  u.ReferralCode,
		TotalBookings: u.TotalBookings,
		TotalSpent:    u.TotalSpent,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}
