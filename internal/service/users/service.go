package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/PetBoardingService/internal/domain"
	petRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/pet"
	userRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/user"
	"github.com/m04kA/PetBoardingService/internal/service/users/models"
)

const (
	maxPetAgeYears  = 40
	maxPetWeightKg  = 150
	maxPetNoteChars = 1000
)

// Service профиль клиента и его питомцы
type Service struct {
	userRepo UserRepository
	petRepo  PetRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, petRepo PetRepository, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		petRepo:  petRepo,
		logger:   logger,
	}
}

// UpdateProfile изменяет имя и телефон
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("UpdateProfile: user=%d", userID)

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			req.Phone = nil
		} else {
			req.Phone = &phone
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, name, req.Phone); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("UpdateProfile: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("UpdateProfile: failed to reload user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - reload user: %v", ErrInternal, err)
	}
	return models.FromDomainUser(user), nil
}

// ListPets активные питомцы пользователя
func (s *Service) ListPets(ctx context.Context, ownerID int64) ([]*models.PetResponse, error) {
	pets, err := s.petRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListPets: repository error for user=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListPets - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainPetList(pets), nil
}

// AddPet добавляет питомца
func (s *Service) AddPet(ctx context.Context, ownerID int64, req *models.CreatePetRequest) (*models.PetResponse, error) {
	s.logger.Info("AddPet: user=%d species=%s", ownerID, req.Species)

	if err := validatePet(req); err != nil {
		s.logger.Warn("AddPet: validation failed for user=%d: %v", ownerID, err)
		return nil, err
	}

	created, err := s.petRepo.Create(ctx, req.ToDomain(ownerID))
	if err != nil {
		s.logger.Error("AddPet: repository error for user=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: AddPet - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddPet: created pet id=%d for user=%d", created.ID, ownerID)
	return models.FromDomainPet(created), nil
}

// RemovePet деактивирует питомца владельца
func (s *Service) RemovePet(ctx context.Context, ownerID, petID int64) error {
	s.logger.Info("RemovePet: pet=%d user=%d", petID, ownerID)

	if err := s.petRepo.Deactivate(ctx, petID, ownerID); err != nil {
		if errors.Is(err, petRepo.ErrPetNotFound) {
			return ErrPetNotFound
		}
		s.logger.Error("RemovePet: repository error for pet=%d: %v", petID, err)
		return fmt.Errorf("%w: RemovePet - repository error: %v", ErrInternal, err)
	}
	return nil
}

// OwnedPet питомец, принадлежащий пользователю
func (s *Service) OwnedPet(ctx context.Context, ownerID, petID int64) (*domain.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, petRepo.ErrPetNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("%w: OwnedPet - repository error: %v", ErrInternal, err)
	}
	if pet.OwnerID != ownerID {
		return nil, ErrPetNotFound
	}
	return pet, nil
}

func validatePet(req *models.CreatePetRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: pet name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if !req.Species.Valid() {
		return fmt.Errorf("%w: species must be cat or dog", ErrInvalidInput)
	}
	if req.Size != nil {
		switch *req.Size {
		case domain.SizeSmall, domain.SizeMedium, domain.SizeLarge, domain.SizeGiant:
		default:
			return fmt.Errorf("%w: unknown size %q", ErrInvalidInput, *req.Size)
		}
	}
	if req.AgeYears != nil && (*req.AgeYears < 0 || *req.AgeYears > maxPetAgeYears) {
		return fmt.Errorf("%w: age must be between 0 and %d", ErrInvalidInput, maxPetAgeYears)
	}
	if req.WeightKg != nil && (*req.WeightKg <= 0 || *req.WeightKg > maxPetWeightKg) {
		return fmt.Errorf("%w: weight must be between 0 and %d kg", ErrInvalidInput, maxPetWeightKg)
	}
	for _, note := range []*string{req.DietaryNotes, req.MedicalNotes, req.BehaviorNotes} {
		if note != nil && len(*note) > maxPetNoteChars {
			return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, maxPetNoteChars)
		}
	}
	for _, v := range req.Vaccinations {
		if strings.TrimSpace(v.Name) == "" || v.Date.IsZero() {
			return fmt.Errorf("%w: vaccination name and date are required", ErrInvalidInput)
		}
	}
	return nil
}
