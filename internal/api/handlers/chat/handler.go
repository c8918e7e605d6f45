package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/chat"
	"github.com/m04kA/PetBoardingService/internal/service/chat/models"
)

type ChatService interface {
	Conversation(ctx context.Context, userID int64) (*models.ConversationResponse, error)
	PostMessage(ctx context.Context, userID int64, req *models.PostMessageRequest) (*models.MessageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service ChatService
	logger  Logger
}

func NewHandler(service ChatService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Conversation GET /api/user/chat
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	conv, err := h.service.Conversation(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("GET /user/chat - Failed to load conversation: user_id=%d, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, conv)
}

// PostMessage POST /api/user/chat/messages
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req models.PostMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}

	msg, err := h.service.PostMessage(r.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /user/chat/messages - Failed to post: user_id=%d, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, msg)
}
