package checkout

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/usecase/checkout"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCapacityExceeded   = "на выбранные даты нет свободных мест"
	msgPetNotFound        = "питомец не найден"
	msgPaymentProvider    = "платежный сервис недоступен, попробуйте позже"
)

type Handler struct {
	useCase CheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/booking/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется авторизация")
		return
	}

	var req CheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.Selected().ToUseCaseRequest(user)
	if err != nil {
		h.logger.Warn("POST /booking/checkout - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidInput):
			h.logger.Warn("POST /booking/checkout - Validation failed: user_id=%d, error=%v", user.ID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, checkout.ErrPetNotFound):
			handlers.RespondNotFound(w, msgPetNotFound)

		case errors.Is(err, domain.ErrCapacityExceeded):
			h.logger.Warn("POST /booking/checkout - Capacity exceeded: user_id=%d, pet=%s", user.ID, useCaseReq.PetType)
			handlers.RespondConflict(w, handlers.CodeCapacityExceeded, msgCapacityExceeded)

		case errors.Is(err, checkout.ErrPaymentProvider):
			h.logger.Error("POST /booking/checkout - Payment provider error: user_id=%d, error=%v", user.ID, err)
			handlers.RespondBadGateway(w, msgPaymentProvider)

		default:
			h.logger.Error("POST /booking/checkout - Failed to checkout: user_id=%d, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking/checkout - Checkout session created: booking=%s, order=%s, user_id=%d",
		result.BookingNumber, result.OrderID, user.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
