package users

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, name string, phone *string) error
}

// PetRepository интерфейс хранилища питомцев
type PetRepository interface {
	Create(ctx context.Context, p *domain.Pet) (*domain.Pet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Pet, error)
	GetByID(ctx context.Context, id int64) (*domain.Pet, error)
	Deactivate(ctx context.Context, id, ownerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
