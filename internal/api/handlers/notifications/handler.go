package notifications

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/notifications"
	"github.com/m04kA/PetBoardingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, userID int64, unreadOnly bool) ([]models.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/user/notifications?unread=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.service.List(r.Context(), user.ID, unreadOnly)
	if err != nil {
		h.logger.Error("GET /user/notifications - Failed to list: user_id=%d, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{"notifications": items})
}

// MarkRead PATCH /api/user/notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, "некорректный ID уведомления")
		return
	}

	if err := h.service.MarkRead(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotificationNotFound):
			handlers.RespondNotFound(w, "уведомление не найдено")
		default:
			h.logger.Error("PATCH /user/notifications/{id}/read - Failed: id=%d, user_id=%d, error=%v", id, user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
