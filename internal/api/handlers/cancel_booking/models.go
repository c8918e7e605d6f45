package cancel_booking

import (
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model, тело необязательно
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(actor *domain.User, bookingID int64) *cancel_booking.Request {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}
	return &cancel_booking.Request{
		Actor:     actor,
		BookingID: bookingID,
		Reason:    reason,
	}
}
