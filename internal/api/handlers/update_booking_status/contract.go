package update_booking_status

import (
	"context"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/service/bookings/models"
	"github.com/m04kA/PetBoardingService/internal/usecase/cancel_booking"
)

type BookingService interface {
	UpdateStatus(ctx context.Context, actorID, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error)
}

// Canceller отмена с возвратом, выполняется отдельным use case
type Canceller interface {
	Cancel(w http.ResponseWriter, r *http.Request, req *cancel_booking.Request)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
