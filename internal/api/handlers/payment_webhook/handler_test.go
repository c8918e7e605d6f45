package payment_webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	webhook "github.com/m04kA/PetBoardingService/internal/usecase/payment_webhook"
)

type useCaseStub struct {
	gotPayload   string
	gotSignature string
	result       *webhook.Result
	err          error
}

func (s *useCaseStub) Execute(_ context.Context, payload []byte, signature string) (*webhook.Result, error) {
	s.gotPayload, s.gotSignature = string(payload), signature
	return s.result, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandler(t *testing.T) {
	tests := []struct {
		name string
		stub *useCaseStub
		want int
	}{
		{
			name: "processed",
			stub: &useCaseStub{result: &webhook.Result{EventType: "checkout.session.completed", Outcome: webhook.OutcomeProcessed}},
			want: http.StatusOK,
		},
		{
			name: "duplicate is acknowledged",
			stub: &useCaseStub{result: &webhook.Result{Outcome: webhook.OutcomeDuplicate}},
			want: http.StatusOK,
		},
		{name: "bad signature", stub: &useCaseStub{err: webhook.ErrInvalidSignature}, want: http.StatusBadRequest},
		{name: "internal error asks for retry", stub: &useCaseStub{err: webhook.ErrInternal}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(`{"id":"evt_1"}`))
			req.Header.Set(payments.SignatureHeader, "t=1,v1=abc")
			rec := httptest.NewRecorder()

			NewHandler(tt.stub, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, `{"id":"evt_1"}`, tt.stub.gotPayload)
			assert.Equal(t, "t=1,v1=abc", tt.stub.gotSignature)
		})
	}
}
