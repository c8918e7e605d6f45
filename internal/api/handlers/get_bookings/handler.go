package get_bookings

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/bookings"
	"github.com/m04kA/PetBoardingService/internal/service/bookings/models"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type BookingService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.BookingListResponse, error)
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

// Handle GET /api/admin/bookings
// Query params: status, petType, from, to, limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &models.ListRequest{
		Limit:  handlers.QueryInt(r, "limit", domain.DefaultListLimit),
		Offset: handlers.QueryInt(r, "offset", 0),
	}
	if status := q.Get("status"); status != "" {
		req.Status = &status
	}
	if petType := q.Get("petType"); petType != "" {
		req.PetType = &petType
	}

	var err error
	if req.From, err = handlers.QueryDate(r, "from"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if req.To, err = handlers.QueryDate(r, "to"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput), errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
		default:
			h.logger.Error("GET /admin/bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved: count=%d", len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
