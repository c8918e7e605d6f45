package checkout

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// PetInput питомец в заказе: сохраненный (PetID) или описанный в форме
type PetInput struct {
	PetID        *int64
	Name         string
	Species      domain.PetType
	Breed        string
	Size         string
	AgeYears     *float64
	Vaccinated   bool
	SpecialNeeds string
}

// Request запрос на оформление бронирования
type Request struct {
	User            *domain.User
	ServiceType     domain.ServiceType
	PetType         domain.PetType
	StartDate       time.Time
	EndDate         time.Time
	Pets            []PetInput
	AddOnIDs        []string
	SpecialRequests *string
	TotalPrice      *float64 // сумма, показанная клиенту; только для сверки
	PayDeposit      bool
}

// Response ссылка на оплату и номер бронирования
type Response struct {
	URL           string    `json:"url"`
	OrderID       string    `json:"orderId"`
	BookingNumber string    `json:"bookingNumber"`
	Total         float64   `json:"total"`
	Charge        float64   `json:"charge"`
	Currency      string    `json:"currency"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
