package update_availability

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/availability"
	"github.com/m04kA/PetBoardingService/internal/service/availability/models"
)

type AvailabilityService interface {
	Upsert(ctx context.Context, actorID int64, req *models.UpsertRequest) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// UpsertRequest HTTP request model
type UpsertRequest struct {
	Date            string   `json:"date"`
	PetType         string   `json:"petType"`
	Total           int      `json:"total"`
	Blocked         int      `json:"blocked"`
	IsBlocked       bool     `json:"isBlocked"`
	BlockReason     *string  `json:"blockReason,omitempty"`
	PriceOverride   *float64 `json:"priceOverride,omitempty"`
	PriceMultiplier *float64 `json:"priceMultiplier,omitempty"`
}

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/admin/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req UpsertRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}
	date, err := handlers.ParseDate(req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, "некорректный формат даты, ожидается YYYY-MM-DD")
		return
	}

	saved, err := h.service.Upsert(r.Context(), user.ID, &models.UpsertRequest{
		Date:            date,
		PetType:         domain.PetType(req.PetType),
		Total:           req.Total,
		Blocked:         req.Blocked,
		IsBlocked:       req.IsBlocked,
		BlockReason:     req.BlockReason,
		PriceOverride:   req.PriceOverride,
		PriceMultiplier: req.PriceMultiplier,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PUT /admin/availability - Failed to save: date=%s, pet=%s, error=%v", req.Date, req.PetType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/availability - Saved: date=%s, pet=%s, total=%d, by user_id=%d",
		saved.Date, saved.PetType, saved.Total, user.ID)
	handlers.RespondJSON(w, http.StatusOK, saved)
}
