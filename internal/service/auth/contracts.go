package auth

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/infra/security"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
	IncrementTokenVersion(ctx context.Context, id int64) error
}

// TokenManager выпуск и проверка JWT
type TokenManager interface {
	Issue(user *domain.User) (*security.TokenPair, error)
	Parse(tokenString string, want security.TokenType) (*security.Claims, error)
}

// PasswordHasher хэширование паролей
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
