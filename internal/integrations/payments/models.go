package payments

import "time"

// Типы событий вебхука
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventCheckoutFailed    = "checkout.session.failed"
)

// CheckoutRequest параметры платежной сессии. Суммы в центах.
type CheckoutRequest struct {
	OrderID       string
	BookingNumber string
	Description   string
	AmountCents   int64
	Currency      string
	CustomerEmail string
	ExpiresAt     time.Time
}

// Session созданная платежная сессия
type Session struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

// RefundRequest возврат по оплаченной сессии
type RefundRequest struct {
	RefundID        string
	PaymentIntentID string
	SessionID       string
	AmountCents     int64
	Reason          string
}

// RefundResult ответ провайдера на возврат
type RefundResult struct {
	ID     string
	Status string
}

// Event разобранный вебхук
type Event struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	CustomerID      string
	AmountCents     int64
	OrderID         string
	FailureReason   string
}

type checkoutSessionBody struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	ExpiresAt     int64             `json:"expires_at"`
	Metadata      map[string]string `json:"metadata"`
}

type checkoutSessionResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

type refundBody struct {
	PaymentIntent string            `json:"payment_intent,omitempty"`
	Session       string            `json:"session,omitempty"`
	Amount        int64             `json:"amount"`
	Reason        string            `json:"reason,omitempty"`
	Metadata      map[string]string `json:"metadata"`
}

type refundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type webhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID               string            `json:"id"`
			PaymentIntent    string            `json:"payment_intent"`
			Customer         string            `json:"customer"`
			AmountTotal      int64             `json:"amount_total"`
			Metadata         map[string]string `json:"metadata"`
			LastPaymentError *struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}
