package quote

import (
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/quotes/models"
)

// PetRequest питомец в форме бронирования
type PetRequest struct {
	ID           *int64   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Breed        string   `json:"breed"`
	Size         string   `json:"size"`
	Age          *float64 `json:"age,omitempty"`
	Vaccinated   bool     `json:"vaccinated"`
	SpecialNeeds string   `json:"specialNeeds"`
}

// QuoteRequest HTTP request model
type QuoteRequest struct {
	ServiceType  string       `json:"serviceType"`
	PetType      string       `json:"petType"`
	CheckInDate  string       `json:"checkInDate"`
	CheckOutDate string       `json:"checkOutDate"`
	Pets         []PetRequest `json:"pets"`
	AddOns       []string     `json:"addOns"`
}

func (p PetRequest) Snapshot() domain.PetSnapshot {
	return domain.PetSnapshot{
		PetID:        p.ID,
		Name:         p.Name,
		Species:      domain.PetType(p.Type),
		Breed:        p.Breed,
		Size:         p.Size,
		AgeYears:     p.Age,
		Vaccinated:   p.Vaccinated,
		SpecialNeeds: p.SpecialNeeds,
	}
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *QuoteRequest) ToServiceRequest() (*models.QuoteRequest, error) {
	start, err := handlers.ParseDate(r.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("checkInDate: %w", err)
	}
	end, err := handlers.ParseDate(r.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("checkOutDate: %w", err)
	}

	pets := make([]domain.PetSnapshot, 0, len(r.Pets))
	for _, p := range r.Pets {
		pets = append(pets, p.Snapshot())
	}

	return &models.QuoteRequest{
		ServiceType: domain.ServiceType(r.ServiceType),
		PetType:     domain.PetType(r.PetType),
		StartDate:   start,
		EndDate:     end,
		Pets:        pets,
		AddOnIDs:    r.AddOns,
	}, nil
}
