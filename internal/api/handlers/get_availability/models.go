package get_availability

import (
	"github.com/m04kA/PetBoardingService/internal/domain"
)

// DayResponse свободные места на дату
type DayResponse struct {
	Date      string `json:"date"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
	IsBlocked bool   `json:"isBlocked"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	PetType domain.PetType `json:"petType"`
	Days    []DayResponse  `json:"days"`
}

func FromDomain(petType domain.PetType, days []domain.AvailabilitySummary) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		PetType: petType,
		Days:    make([]DayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, DayResponse{
			Date:      d.Date.Format(domain.DateFormat),
			Available: d.Available,
			Total:     d.Total,
			IsBlocked: d.IsBlocked,
		})
	}
	return resp
}
