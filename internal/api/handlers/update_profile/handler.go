package update_profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/users"
	"github.com/m04kA/PetBoardingService/internal/service/users/models"
)

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// UpdateProfileRequest HTTP request model
type UpdateProfileRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/user/profile
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), user.ID, &models.UpdateProfileRequest{Name: req.Name, Phone: req.Phone})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, users.ErrUserNotFound):
			handlers.RespondNotFound(w, "пользователь не найден")
		default:
			h.logger.Error("PUT /user/profile - Failed to update profile: user_id=%d, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /user/profile - Profile updated: user_id=%d", user.ID)
	handlers.RespondJSON(w, http.StatusOK, profile)
}
