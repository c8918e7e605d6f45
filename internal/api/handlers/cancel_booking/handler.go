package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/orders"
	"github.com/m04kA/PetBoardingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgPaymentProvider    = "не удалось вернуть оплату, попробуйте позже"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/user/bookings/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	bookingID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("POST /user/bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /user/bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.Cancel(w, r, req.ToUseCaseRequest(user, bookingID))
}

// Cancel выполняет отмену и пишет ответ. Используется и маршрутом смены статуса персоналом.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request, req *cancel_booking.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, cancel_booking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancel_booking.ErrAccessDenied):
			h.logger.Warn("%s %s - Access denied: booking_id=%d, user_id=%d", r.Method, r.URL.Path, req.BookingID, req.Actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancel_booking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, domain.ErrInvalidTransition):
			handlers.RespondConflict(w, handlers.CodeInvalidTransition, msgCannotCancel)

		case errors.Is(err, domain.ErrInvalidRefundAmount):
			handlers.RespondUnprocessable(w, handlers.CodeInvalidRefundAmount, err.Error())

		case errors.Is(err, orders.ErrPaymentProvider):
			h.logger.Error("%s %s - Refund failed at provider: booking_id=%d, error=%v", r.Method, r.URL.Path, req.BookingID, err)
			handlers.RespondBadGateway(w, msgPaymentProvider)

		default:
			h.logger.Error("%s %s - Failed to cancel booking: booking_id=%d, error=%v", r.Method, r.URL.Path, req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s %s - Booking cancelled: booking=%s, user_id=%d, refunded=%.2f",
		r.Method, r.URL.Path, result.BookingNumber, req.Actor.ID, result.RefundedAmount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
