package payments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(url string) *Client {
	return NewClient(Options{
		BaseURL:       url,
		APIKey:        "sk_test",
		WebhookSecret: "whsec",
		SuccessURL:    "https://app.example/success",
		CancelURL:     "https://app.example/cancel",
		Timeout:       time.Second,
	}, nopLogger{})
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "ord_1", r.Header.Get("Idempotency-Key"))

		var body checkoutSessionBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(13500), body.Amount)
		assert.Equal(t, "ord_1", body.Metadata["orderId"])
		assert.Equal(t, "https://app.example/success", body.SuccessURL)

		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"id":"cs_1","url":"https://pay.example/cs_1","expires_at":1780000000}`)
	}))
	defer srv.Close()

	s, err := newTestClient(srv.URL).CreateCheckoutSession(context.Background(), CheckoutRequest{
		OrderID:     "ord_1",
		AmountCents: 13500,
		Currency:    "usd",
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_1", s.ID)
	assert.Equal(t, "https://pay.example/cs_1", s.URL)
}

func TestClient_CreateCheckoutSession_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "card declined", status: http.StatusPaymentRequired, body: `{"error":{"type":"card_error","message":"declined"}}`, wantErr: ErrProvider},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: ErrProvider},
		{name: "garbage body", status: http.StatusOK, body: `{`, wantErr: ErrInvalidResponse},
		{name: "missing url", status: http.StatusOK, body: `{"id":"cs_1"}`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).CreateCheckoutSession(context.Background(), CheckoutRequest{OrderID: "ord_1"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).CreateRefund(context.Background(), RefundRequest{RefundID: "rf_1", AmountCents: 100})

	assert.ErrorIs(t, err, ErrProvider)
}

func TestClient_CreateRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/refunds", r.URL.Path)
		assert.Equal(t, "rf_1", r.Header.Get("Idempotency-Key"))
		var body refundBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pi_1", body.PaymentIntent)
		assert.Equal(t, int64(5000), body.Amount)
		_, _ = io.WriteString(w, `{"id":"re_1","status":"succeeded"}`)
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).CreateRefund(context.Background(), RefundRequest{
		RefundID:        "rf_1",
		PaymentIntentID: "pi_1",
		AmountCents:     5000,
	})

	require.NoError(t, err)
	assert.Equal(t, "re_1", res.ID)
	assert.Equal(t, "succeeded", res.Status)
}

const completedPayload = `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1","customer":"cus_1","amount_total":13500,"metadata":{"orderId":"ord_1"}}}}`

func TestClient_ParseWebhook(t *testing.T) {
	c := newTestClient("http://unused")
	payload := []byte(completedPayload)

	event, err := c.ParseWebhook(payload, c.webhook.Sign(payload, time.Now()))

	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_1", event.SessionID)
	assert.Equal(t, "pi_1", event.PaymentIntentID)
	assert.Equal(t, int64(13500), event.AmountCents)
	assert.Equal(t, "ord_1", event.OrderID)
}

func TestVerifier(t *testing.T) {
	payload := []byte(completedPayload)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewVerifier("whsec")
	v.now = func() time.Time { return now }

	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{name: "valid", header: v.Sign(payload, now), ok: true},
		{name: "foreign secret", header: NewVerifier("other").Sign(payload, now)},
		{name: "stale", header: v.Sign(payload, now.Add(-10*time.Minute))},
		{name: "malformed", header: "garbage"},
		{name: "empty", header: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(payload, tt.header)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}

	t.Run("tampered body", func(t *testing.T) {
		err := v.Verify([]byte(`{"id":"evt_2"}`), v.Sign(payload, now))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("no secret configured", func(t *testing.T) {
		err := NewVerifier("").Verify(payload, v.Sign(payload, now))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestParseEvent_Invalid(t *testing.T) {
	_, err := ParseEvent([]byte(`{"type":"checkout.session.completed","data":{"object":{}}}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
