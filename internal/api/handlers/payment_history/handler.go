package payment_history

import (
	"context"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/orders/models"
)

type OrderService interface {
	History(ctx context.Context, userID int64) ([]*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HistoryResponse HTTP response model
type HistoryResponse struct {
	Orders []*models.OrderResponse `json:"orders"`
}

type Handler struct {
	service OrderService
	logger  Logger
}

func NewHandler(service OrderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/payments/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	orders, err := h.service.History(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("GET /payments/history - Failed to load orders: user_id=%d, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, HistoryResponse{Orders: orders})
}
