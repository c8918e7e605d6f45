package checkout

import (
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/handlers/quote"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/usecase/checkout"
)

// BookingRequest выбор клиента из формы бронирования
type BookingRequest struct {
	ServiceType     string             `json:"serviceType"`
	PetType         string             `json:"petType"`
	CheckInDate     string             `json:"checkInDate"`
	CheckOutDate    string             `json:"checkOutDate"`
	Pets            []quote.PetRequest `json:"pets"`
	SpecialRequests *string            `json:"specialRequests,omitempty"`
	TotalPrice      *float64           `json:"totalPrice,omitempty"`
	Nights          int                `json:"nights"`
	AddOns          []string           `json:"addOns"`
	PayDeposit      bool               `json:"payDeposit"`
}

// CheckoutRequest принимает и {booking:{...}}, и те же поля на верхнем уровне (форма календаря)
type CheckoutRequest struct {
	Booking *BookingRequest `json:"booking,omitempty"`
	BookingRequest
}

// Selected вложенная форма имеет приоритет
func (r *CheckoutRequest) Selected() *BookingRequest {
	if r.Booking != nil {
		return r.Booking
	}
	return &r.BookingRequest
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookingRequest) ToUseCaseRequest(user *domain.User) (*checkout.Request, error) {
	start, err := handlers.ParseDate(r.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("checkInDate: %w", err)
	}
	end, err := handlers.ParseDate(r.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("checkOutDate: %w", err)
	}

	pets := make([]checkout.PetInput, 0, len(r.Pets))
	for _, p := range r.Pets {
		pets = append(pets, checkout.PetInput{
			PetID:        p.ID,
			Name:         p.Name,
			Species:      domain.PetType(p.Type),
			Breed:        p.Breed,
			Size:         p.Size,
			AgeYears:     p.Age,
			Vaccinated:   p.Vaccinated,
			SpecialNeeds: p.SpecialNeeds,
		})
	}

	return &checkout.Request{
		User:            user,
		ServiceType:     domain.ServiceType(r.ServiceType),
		PetType:         domain.PetType(r.PetType),
		StartDate:       start,
		EndDate:         end,
		Pets:            pets,
		AddOnIDs:        r.AddOns,
		SpecialRequests: r.SpecialRequests,
		TotalPrice:      r.TotalPrice,
		PayDeposit:      r.PayDeposit,
	}, nil
}
