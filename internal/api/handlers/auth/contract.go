package auth

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/auth/models"
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error)
	Logout(ctx context.Context, userID int64) error
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	Me(ctx context.Context, userID int64) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
