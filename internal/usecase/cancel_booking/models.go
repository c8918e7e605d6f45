package cancel_booking

import "github.com/m04kA/PetBoardingService/internal/domain"

// Request отмена клиентом или персоналом
type Request struct {
	Actor     *domain.User
	BookingID int64
	Reason    string
}

// Response итог отмены
type Response struct {
	BookingNumber  string               `json:"bookingNumber"`
	Status         domain.BookingStatus `json:"status"`
	PaymentStatus  domain.PaymentStatus `json:"paymentStatus"`
	RefundedAmount float64              `json:"refundedAmount"`
	RefundID       *string              `json:"refundId,omitempty"`
}
