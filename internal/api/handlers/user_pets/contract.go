package user_pets

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/service/users/models"
)

type PetService interface {
	ListPets(ctx context.Context, ownerID int64) ([]*models.PetResponse, error)
	AddPet(ctx context.Context, ownerID int64, req *models.CreatePetRequest) (*models.PetResponse, error)
	RemovePet(ctx context.Context, ownerID, petID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
