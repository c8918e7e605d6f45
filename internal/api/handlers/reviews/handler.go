package reviews

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/reviews"
	"github.com/m04kA/PetBoardingService/internal/service/reviews/models"
)

type ReviewService interface {
	Create(ctx context.Context, userID, bookingID int64, req *models.CreateRequest) (*models.ReviewResponse, error)
	ListPublished(ctx context.Context) ([]models.ReviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CreateReviewRequest HTTP request model
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/reviews
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("GET /reviews - Failed to list reviews: %v", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{"reviews": items})
}

// Create POST /api/user/bookings/{id}/review
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	bookingID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, "некорректный ID бронирования")
		return
	}

	var req CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}

	review, err := h.service.Create(r.Context(), user.ID, bookingID, &models.CreateRequest{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, reviews.ErrBookingNotFound):
			handlers.RespondNotFound(w, "бронирование не найдено")
		case errors.Is(err, reviews.ErrAccessDenied):
			handlers.RespondForbidden(w, "доступ запрещен")
		case errors.Is(err, reviews.ErrNotReviewable):
			handlers.RespondConflict(w, handlers.CodeInvalidTransition, "отзыв можно оставить только после завершенного проживания")
		case errors.Is(err, reviews.ErrAlreadyReviewed):
			handlers.RespondBadRequest(w, "отзыв на это бронирование уже оставлен")
		default:
			h.logger.Error("POST /user/bookings/{id}/review - Failed to create review: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /user/bookings/{id}/review - Review created: booking_id=%d, user_id=%d", bookingID, user.ID)
	handlers.RespondJSON(w, http.StatusCreated, review)
}
