package quote

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/service/quotes"
	"github.com/m04kA/PetBoardingService/internal/service/quotes/models"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type QuoteService interface {
	Quote(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service QuoteService
	logger  Logger
}

func NewHandler(service QuoteService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/booking/quote, без побочных эффектов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Quote(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, quotes.ErrInvalidInput):
			h.logger.Warn("POST /booking/quote - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /booking/quote - Failed to quote: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
