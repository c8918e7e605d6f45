package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент платежного провайдера (API в стиле Stripe Checkout)
type Client struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	httpClient *http.Client
	webhook    *Verifier
	log        Logger
}

// Options параметры клиента
type Options struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Timeout       time.Duration
}

// NewClient создает новый экземпляр клиента провайдера
func NewClient(opts Options, log Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		successURL: opts.SuccessURL,
		cancelURL:  opts.CancelURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		webhook: NewVerifier(opts.WebhookSecret),
		log:     log,
	}
}

// CreateCheckoutSession создает платежную сессию и возвращает URL для редиректа
func (c *Client) CreateCheckoutSession(ctx context.Context, in CheckoutRequest) (*Session, error) {
	body := checkoutSessionBody{
		Amount:        in.AmountCents,
		Currency:      in.Currency,
		Description:   in.Description,
		CustomerEmail: in.CustomerEmail,
		SuccessURL:    c.successURL,
		CancelURL:     c.cancelURL,
		ExpiresAt:     in.ExpiresAt.Unix(),
		Metadata: map[string]string{
			"orderId":       in.OrderID,
			"bookingNumber": in.BookingNumber,
		},
	}

	var resp checkoutSessionResponse
	if err := c.post(ctx, "/v1/checkout/sessions", in.OrderID, body, &resp); err != nil {
		c.log.Error("CreateCheckoutSession: order=%s: %v", in.OrderID, err)
		return nil, err
	}
	if resp.ID == "" || resp.URL == "" {
		return nil, fmt.Errorf("%w: session without id or url", ErrInvalidResponse)
	}

	c.log.Info("CreateCheckoutSession: order=%s session=%s", in.OrderID, resp.ID)
	return &Session{
		ID:        resp.ID,
		URL:       resp.URL,
		ExpiresAt: time.Unix(resp.ExpiresAt, 0).UTC(),
	}, nil
}

// CreateRefund возвращает деньги по оплаченной сессии.
// RefundID используется как ключ идемпотентности.
func (c *Client) CreateRefund(ctx context.Context, in RefundRequest) (*RefundResult, error) {
	body := refundBody{
		PaymentIntent: in.PaymentIntentID,
		Session:       in.SessionID,
		Amount:        in.AmountCents,
		Reason:        in.Reason,
		Metadata:      map[string]string{"refundId": in.RefundID},
	}

	var resp refundResponse
	if err := c.post(ctx, "/v1/refunds", in.RefundID, body, &resp); err != nil {
		c.log.Error("CreateRefund: refund=%s: %v", in.RefundID, err)
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: refund without id", ErrInvalidResponse)
	}

	c.log.Info("CreateRefund: refund=%s provider_id=%s status=%s", in.RefundID, resp.ID, resp.Status)
	return &RefundResult{ID: resp.ID, Status: resp.Status}, nil
}

// ParseWebhook проверяет подпись и разбирает событие
func (c *Client) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if err := c.webhook.Verify(payload, signature); err != nil {
		return nil, err
	}
	return ParseEvent(payload)
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var perr ErrorResponse
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &perr) == nil && perr.Error.Message != "" {
			return fmt.Errorf("%w: %d %s: %s", ErrProvider, resp.StatusCode, perr.Error.Type, perr.Error.Message)
		}
		return fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrProvider, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// ParseEvent разбирает тело вебхука без проверки подписи
func ParseEvent(payload []byte) (*Event, error) {
	var p webhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	obj := p.Data.Object
	if p.Type == "" || obj.ID == "" {
		return nil, fmt.Errorf("%w: missing type or session id", ErrInvalidEvent)
	}

	event := &Event{
		ID:              p.ID,
		Type:            p.Type,
		SessionID:       obj.ID,
		PaymentIntentID: obj.PaymentIntent,
		CustomerID:      obj.Customer,
		AmountCents:     obj.AmountTotal,
		OrderID:         obj.Metadata["orderId"],
	}
	if obj.LastPaymentError != nil {
		event.FailureReason = obj.LastPaymentError.Message
	}
	return event, nil
}
