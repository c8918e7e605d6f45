package create_refund

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/orders"
	"github.com/m04kA/PetBoardingService/internal/service/orders/models"
)

type OrderService interface {
	Refund(ctx context.Context, actorID int64, req *models.RefundRequest) (*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RefundRequest HTTP request model; amount 0 или отсутствует означает весь остаток
type RefundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
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

// Handle POST /api/admin/orders/{orderId}/refunds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	orderID := mux.Vars(r)["orderId"]

	var req RefundRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}

	order, err := h.service.Refund(r.Context(), user.ID, &models.RefundRequest{
		OrderID: orderID,
		Amount:  req.Amount,
		Reason:  req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrBookingNotFound):
			handlers.RespondNotFound(w, "заказ не найден")
		case errors.Is(err, orders.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrInvalidRefundAmount):
			h.logger.Warn("POST /admin/orders/{id}/refunds - %v", err)
			handlers.RespondUnprocessable(w, handlers.CodeInvalidRefundAmount, err.Error())
		case errors.Is(err, orders.ErrPaymentProvider):
			h.logger.Error("POST /admin/orders/{id}/refunds - Provider error: order=%s, error=%v", orderID, err)
			handlers.RespondBadGateway(w, "платежный сервис недоступен")
		default:
			h.logger.Error("POST /admin/orders/{id}/refunds - Failed to refund: order=%s, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/orders/{id}/refunds - Refund issued: order=%s, by user_id=%d", orderID, user.ID)
	handlers.RespondJSON(w, http.StatusCreated, order)
}
