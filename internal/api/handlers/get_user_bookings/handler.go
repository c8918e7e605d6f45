package get_user_bookings

import (
	"context"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/bookings/models"
)

type BookingService interface {
	GetUserBookings(ctx context.Context, userID int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/user/bookings, только бронирования текущего пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	result, err := h.service.GetUserBookings(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("GET /user/bookings - Failed to get bookings: user_id=%d, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /user/bookings - Bookings retrieved: user_id=%d, count=%d", user.ID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
