package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/availability"
)

const (
	msgInvalidPetType = "некорректный тип питомца"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
)

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

// Handle GET /api/availability?petType=&startDate=&endDate=
// Без endDate возвращается одна дата.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	petType := domain.PetType(r.URL.Query().Get("petType"))
	if !petType.Valid() {
		h.logger.Warn("GET /availability - Invalid pet type: %q", petType)
		handlers.RespondBadRequest(w, msgInvalidPetType)
		return
	}

	from, err := handlers.ParseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	end, err := handlers.QueryDate(r, "endDate")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var days []domain.AvailabilitySummary
	if end == nil {
		var day *domain.AvailabilitySummary
		day, err = h.service.GetAvailability(r.Context(), from, petType)
		if day != nil {
			days = []domain.AvailabilitySummary{*day}
		}
	} else {
		days, err = h.service.GetRange(r.Context(), petType, from, *end)
	}
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid range: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /availability - Failed to load availability: pet=%s, error=%v", petType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(petType, days))
}
