package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// UpsertRequest настройка емкости и цены на дату
type UpsertRequest struct {
	Date            time.Time
	PetType         domain.PetType
	Total           int
	Blocked         int
	IsBlocked       bool
	BlockReason     *string
	PriceOverride   *float64
	PriceMultiplier *float64
}

func (r *UpsertRequest) ToDomain() *domain.Availability {
	return &domain.Availability{
		Date:            domain.TruncateDate(r.Date),
		PetType:         r.PetType,
		Total:           r.Total,
		Blocked:         r.Blocked,
		IsBlocked:       r.IsBlocked,
		BlockReason:     r.BlockReason,
		PriceOverride:   r.PriceOverride,
		PriceMultiplier: r.PriceMultiplier,
	}
}

// AvailabilityResponse сохраненная строка учета
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	PetType         domain.PetType `json:"petType"`
	Total           int            `json:"total"`
	Booked          int            `json:"booked"`
	Blocked         int            `json:"blocked"`
	Available       int            `json:"available"`
	IsBlocked       bool           `json:"isBlocked"`
	BlockReason     *string        `json:"blockReason,omitempty"`
	PriceOverride   *float64       `json:"priceOverride,omitempty"`
	PriceMultiplier *float64       `json:"priceMultiplier,omitempty"`
}

func FromDomainAvailability(a *domain.Availability) *AvailabilityResponse {
	available, _ := a.Available()
	return &AvailabilityResponse{
		Date:            a.Date.Format(domain.DateFormat),
		PetType:         a.PetType,
		Total:           a.Total,
		Booked:          a.Booked,
		Blocked:         a.Blocked,
		Available:       available,
		IsBlocked:       a.IsBlocked,
		BlockReason:     a.BlockReason,
		PriceOverride:   a.PriceOverride,
		PriceMultiplier: a.PriceMultiplier,
	}
}
