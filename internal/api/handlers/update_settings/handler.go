package update_settings

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/settings"
	"github.com/m04kA/PetBoardingService/internal/service/settings/models"
)

type SettingsService interface {
	Update(ctx context.Context, actorID int64, settings *domain.SystemSettings) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/admin/settings, документ заменяется целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req domain.SystemSettings
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}

	saved, err := h.service.Update(r.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput), errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PUT /admin/settings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PUT /admin/settings - Failed to save settings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/settings - Settings updated by user_id=%d", user.ID)
	handlers.RespondJSON(w, http.StatusOK, saved)
}
