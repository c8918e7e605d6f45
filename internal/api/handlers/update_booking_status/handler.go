package update_booking_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/bookings"
	"github.com/m04kA/PetBoardingService/internal/service/bookings/models"
	"github.com/m04kA/PetBoardingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgInvalidStatus      = "некорректный статус"
	msgInvalidTransition  = "недопустимый переход статуса"
)

type Handler struct {
	service   BookingService
	canceller Canceller
	logger    Logger
}

func NewHandler(service BookingService, canceller Canceller, logger Logger) *Handler {
	return &Handler{
		service:   service,
		canceller: canceller,
		logger:    logger,
	}
}

// Handle PATCH /api/admin/bookings/{id}/status
// status=cancelled уходит в отмену с возвратом оплаты.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	bookingID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if domain.BookingStatus(req.Status) == domain.StatusCancelled {
		h.canceller.Cancel(w, r, &cancel_booking.Request{Actor: user, BookingID: bookingID, Reason: req.Reason})
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), user.ID, bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, bookings.ErrInvalidStatus), errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)
		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /admin/bookings/{id}/status - %v", err)
			handlers.RespondConflict(w, handlers.CodeInvalidTransition, msgInvalidTransition)
		default:
			h.logger.Error("PATCH /admin/bookings/{id}/status - Failed to update status: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/bookings/{id}/status - Status updated: booking_id=%d, status=%s, by user_id=%d",
		bookingID, req.Status, user.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
