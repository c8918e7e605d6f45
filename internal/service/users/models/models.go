package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// UpdateProfileRequest изменяемые поля профиля
type UpdateProfileRequest struct {
	Name  string
	Phone *string
}

// CreatePetRequest данные нового питомца
type CreatePetRequest struct {
	Name           string
	Species        domain.PetType
	Breed          *string
	Size           *domain.PetSize
	AgeYears       *float64
	WeightKg       *float64
	Vaccinated     bool
	SpayedNeutered bool
	Microchipped   bool
	Vaccinations   []domain.Vaccination
	DietaryNotes   *string
	MedicalNotes   *string
	BehaviorNotes  *string
}

func (r *CreatePetRequest) ToDomain(ownerID int64) *domain.Pet {
	return &domain.Pet{
		OwnerID:        ownerID,
		Name:           r.Name,
		Species:        r.Species,
		Breed:          r.Breed,
		Size:           r.Size,
		AgeYears:       r.AgeYears,
		WeightKg:       r.WeightKg,
		Vaccinated:     r.Vaccinated,
		SpayedNeutered: r.SpayedNeutered,
		Microchipped:   r.Microchipped,
		Vaccinations:   r.Vaccinations,
		DietaryNotes:   r.DietaryNotes,
		MedicalNotes:   r.MedicalNotes,
		BehaviorNotes:  r.BehaviorNotes,
	}
}

// ProfileResponse профиль после изменения
type ProfileResponse struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// PetResponse питомец в ответе
type PetResponse struct {
	ID             int64                `json:"id"`
	Name           string               `json:"name"`
	Species        domain.PetType       `json:"species"`
	Breed          *string              `json:"breed,omitempty"`
	Size           *domain.PetSize      `json:"size,omitempty"`
	AgeYears       *float64             `json:"ageYears,omitempty"`
	WeightKg       *float64             `json:"weightKg,omitempty"`
	Vaccinated     bool                 `json:"vaccinated"`
	SpayedNeutered bool                 `json:"spayedNeutered"`
	Microchipped   bool                 `json:"microchipped"`
	Vaccinations   []domain.Vaccination `json:"vaccinations"`
	DietaryNotes   *string              `json:"dietaryNotes,omitempty"`
	MedicalNotes   *string              `json:"medicalNotes,omitempty"`
	BehaviorNotes  *string              `json:"behaviorNotes,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

func FromDomainUser(u *domain.User) *ProfileResponse {
	return &ProfileResponse{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone}
}

func FromDomainPet(p *domain.Pet) *PetResponse {
	vaccinations := p.Vaccinations
	if vaccinations == nil {
		vaccinations = []domain.Vaccination{}
	}
	return &PetResponse{
		ID:             p.ID,
		Name:           p.Name,
		Species:        p.Species,
		Breed:          p.Breed,
		Size:           p.Size,
		AgeYears:       p.AgeYears,
		WeightKg:       p.WeightKg,
		Vaccinated:     p.Vaccinated,
		SpayedNeutered: p.SpayedNeutered,
		Microchipped:   p.Microchipped,
		Vaccinations:   vaccinations,
		DietaryNotes:   p.DietaryNotes,
		MedicalNotes:   p.MedicalNotes,
		BehaviorNotes:  p.BehaviorNotes,
		CreatedAt:      p.CreatedAt,
	}
}

func FromDomainPetList(pets []*domain.Pet) []*PetResponse {
	res := make([]*PetResponse, 0, len(pets))
	for _, p := range pets {
		res = append(res, FromDomainPet(p))
	}
	return res
}
