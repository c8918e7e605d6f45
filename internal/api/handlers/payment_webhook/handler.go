package payment_webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	webhook "github.com/m04kA/PetBoardingService/internal/usecase/payment_webhook"
)

const maxPayloadBytes = 256 << 10

type WebhookUseCase interface {
	Execute(ctx context.Context, payload []byte, signature string) (*webhook.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Response подтверждение приема события
type Response struct {
	Received bool           `json:"received"`
	Outcome  webhook.Outcome `json:"outcome,omitempty"`
}

type Handler struct {
	useCase WebhookUseCase
	logger  Logger
}

func NewHandler(useCase WebhookUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/payments/webhook.
// Подпись проверяется по сырому телу. 5xx заставляет провайдера повторить доставку,
// поэтому он отдается только на внутренние ошибки.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, "некорректное тело запроса")
		return
	}

	result, err := h.useCase.Execute(r.Context(), payload, r.Header.Get(payments.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, webhook.ErrInvalidSignature):
			h.logger.Warn("POST /payments/webhook - Invalid signature from %s", r.RemoteAddr)
			handlers.RespondBadRequest(w, "invalid signature")
		case errors.Is(err, webhook.ErrInvalidPayload):
			handlers.RespondBadRequest(w, "invalid payload")
		default:
			h.logger.Error("POST /payments/webhook - Failed to process event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Event %s: %s", result.EventType, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, Response{Received: true, Outcome: result.Outcome})
}
