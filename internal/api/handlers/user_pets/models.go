package user_pets

import (
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/users/models"
)

// CreatePetRequest HTTP request model
type CreatePetRequest struct {
	Name           string               `json:"name"`
	Species        string               `json:"species"`
	Breed          *string              `json:"breed,omitempty"`
	Size           *string              `json:"size,omitempty"`
	AgeYears       *float64             `json:"age,omitempty"`
	WeightKg       *float64             `json:"weight,omitempty"`
	Vaccinated     bool                 `json:"vaccinated"`
	SpayedNeutered bool                 `json:"spayedNeutered"`
	Microchipped   bool                 `json:"microchipped"`
	Vaccinations   []domain.Vaccination `json:"vaccinations,omitempty"`
	DietaryNotes   *string              `json:"dietaryNotes,omitempty"`
	MedicalNotes   *string              `json:"medicalNotes,omitempty"`
	BehaviorNotes  *string              `json:"behaviorNotes,omitempty"`
}

// PetsResponse список питомцев
type PetsResponse struct {
	Pets []*models.PetResponse `json:"pets"`
}

func (r *CreatePetRequest) ToServiceRequest() *models.CreatePetRequest {
	req := &models.CreatePetRequest{
		Name:           r.Name,
		Species:        domain.PetType(r.Species),
		Breed:          r.Breed,
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
	if r.Size != nil {
		size := domain.PetSize(*r.Size)
		req.Size = &size
	}
	return req
}
