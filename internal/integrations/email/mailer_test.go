package email

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type sendClientMock struct {
	mock.Mock
}

func (m *sendClientMock) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	resp, _ := args.Get(0).(*rest.Response)
	return resp, args.Error(1)
}

type logRepoMock struct {
	mock.Mock
}

func (m *logRepoMock) Create(ctx context.Context, entry *domain.EmailLog) error {
	return m.Called(ctx, entry).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newMailer(client sendClient, logs LogRepository, enabled bool) *Mailer {
	return &Mailer{client: client, fromEmail: "hello@petboarding.test", fromName: "Pet Boarding", enabled: enabled, logs: logs, log: nopLogger{}}
}

var msg = Message{To: "ann@example.com", ToName: "Ann", Template: TemplateBookingConfirmed, Subject: "hi", Text: "hi"}

func TestMailer_Send(t *testing.T) {
	client := &sendClientMock{}
	logs := &logRepoMock{}
	client.On("SendWithContext", mock.Anything, mock.Anything).Return(&rest.Response{
		StatusCode: http.StatusAccepted,
		Headers:    map[string][]string{messageIDHeader: {"sg-1"}},
	}, nil)
	logs.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.EmailLog) bool {
		return e.Status == domain.EmailSent && e.ProviderMessageID != nil && *e.ProviderMessageID == "sg-1"
	})).Return(nil)

	err := newMailer(client, logs, true).Send(context.Background(), msg)

	require.NoError(t, err)
	client.AssertExpectations(t)
	logs.AssertExpectations(t)
}

func TestMailer_Send_ProviderRejects(t *testing.T) {
	client := &sendClientMock{}
	logs := &logRepoMock{}
	client.On("SendWithContext", mock.Anything, mock.Anything).Return(&rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}, nil)
	logs.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.EmailLog) bool {
		return e.Status == domain.EmailFailed && e.Error != nil
	})).Return(nil)

	err := newMailer(client, logs, true).Send(context.Background(), msg)

	assert.ErrorIs(t, err, ErrSend)
	logs.AssertExpectations(t)
}

func TestMailer_Send_DisabledLogsSkipped(t *testing.T) {
	client := &sendClientMock{}
	logs := &logRepoMock{}
	logs.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.EmailLog) bool {
		return e.Status == domain.EmailSkipped
	})).Return(errors.New("db down"))

	err := newMailer(client, logs, false).Send(context.Background(), msg)

	assert.NoError(t, err)
	client.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	err := newMailer(&sendClientMock{}, &logRepoMock{}, true).Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestForEvent(t *testing.T) {
	b := &domain.Booking{
		BookingNumber:  "PB-20260601-ABC123",
		Customer:       domain.CustomerSnapshot{Name: "Ann <3", Email: "ann@example.com"},
		StartDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
		Pricing:        domain.BookingPricing{Total: 135},
		RefundedAmount: 135,
	}

	confirmed, ok := ForEvent(domain.NewBookingEvent(domain.EventBookingConfirmed, b, time.Now()))
	require.True(t, ok)
	assert.Equal(t, TemplateBookingConfirmed, confirmed.Template)
	assert.Contains(t, confirmed.Text, "$135.00")
	assert.Contains(t, confirmed.HTML, "Ann &lt;3")

	cancelled, ok := ForEvent(domain.NewBookingEvent(domain.EventBookingCancelled, b, time.Now()))
	require.True(t, ok)
	assert.Contains(t, cancelled.Text, "refund of $135.00")

	_, ok = ForEvent(domain.NewBookingEvent(domain.EventBookingNoShow, b, time.Now()))
	assert.False(t, ok)
}
