package payment_webhook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	orderRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/order"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return fixedNow }

type parserMock struct{ mock.Mock }

func (m *parserMock) ParseWebhook(payload []byte, signature string) (*payments.Event, error) {
	args := m.Called(payload, signature)
	e, _ := args.Get(0).(*payments.Event)
	return e, args.Error(1)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	args := m.Called(ctx, sessionID)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) UpdateState(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type closerMock struct{ mock.Mock }

func (m *closerMock) CloseUnpaidTx(ctx context.Context, o *domain.Order, status domain.OrderStatus, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, o, status, reason)
	if args.Error(1) == nil {
		o.MarkUnpaid(status, reason)
	}
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

type publisherMock struct{ events []domain.BookingEvent }

func (m *publisherMock) Publish(_ context.Context, e domain.BookingEvent) error {
	m.events = append(m.events, e)
	return nil
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, entry *domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

type metricsMock struct{ outcomes []string }

func (m *metricsMock) IncWebhookEvent(event, outcome string) {
	m.outcomes = append(m.outcomes, event+":"+outcome)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	parser   *parserMock
	orders   *orderRepoMock
	bookings *bookingRepoMock
	closer   *closerMock
	events   *publisherMock
	audit    *auditRepoMock
	metrics  *metricsMock
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		parser:   &parserMock{},
		orders:   &orderRepoMock{},
		bookings: &bookingRepoMock{},
		closer:   &closerMock{},
		events:   &publisherMock{},
		audit:    &auditRepoMock{},
		metrics:  &metricsMock{},
	}
	f.uc = NewUseCase(f.parser, f.orders, f.bookings, f.closer, f.events, f.audit, inlineTx{}, f.metrics, nopLogger{})
	f.uc.timeProvider = fixedTime{}
	return f
}

func awaitingOrder(charge float64) *domain.Order {
	return &domain.Order{
		ID:                7,
		OrderID:           "ord_abc",
		BookingID:         42,
		ProviderSessionID: ptr.Ptr("cs_1"),
		Amounts:           domain.OrderAmounts{Total: 200, Charge: charge},
		Status:            domain.OrderProcessing,
	}
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		BookingNumber: "PB-20250310-ABC123",
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Pricing:       domain.BookingPricing{Total: 200},
	}
}

var payload = []byte(`{}`)

func TestUseCase_Completed(t *testing.T) {
	t.Run("full payment confirms booking", func(t *testing.T) {
		f := newFixture()
		order, booking := awaitingOrder(200), pendingBooking()
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			ID: "evt_1", Type: payments.EventCheckoutCompleted, SessionID: "cs_1", PaymentIntentID: "pi_1", AmountCents: 20000,
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_1").Return(order, nil)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
		f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
		f.bookings.On("UpdateState", mock.Anything, booking).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		res, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, res.Outcome)
		assert.Equal(t, domain.OrderPaid, order.Status)
		assert.Equal(t, "pi_1", *order.ProviderPaymentIntentID)
		assert.Equal(t, domain.StatusConfirmed, booking.Status)
		assert.Equal(t, domain.PaymentPaid, booking.PaymentStatus)
		assert.Equal(t, 200.0, booking.PaidAmount)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, domain.EventBookingConfirmed, f.events.events[0].Type)
		assert.Equal(t, []string{"checkout.session.completed:processed"}, f.metrics.outcomes)
	})

	t.Run("deposit payment marks deposit_paid", func(t *testing.T) {
		f := newFixture()
		order, booking := awaitingOrder(50), pendingBooking()
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			Type: payments.EventCheckoutCompleted, SessionID: "cs_1", AmountCents: 5000,
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_1").Return(order, nil)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
		f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
		f.bookings.On("UpdateState", mock.Anything, booking).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentDepositPaid, booking.PaymentStatus)
		assert.Equal(t, 50.0, booking.PaidAmount)
	})

	t.Run("replay for paid order is a no-op", func(t *testing.T) {
		f := newFixture()
		order := awaitingOrder(200)
		order.Status = domain.OrderPaid
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			Type: payments.EventCheckoutCompleted, SessionID: "cs_1", AmountCents: 20000,
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_1").Return(order, nil)

		res, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, res.Outcome)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.events)
	})

	t.Run("unknown session is discarded", func(t *testing.T) {
		f := newFixture()
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			Type: payments.EventCheckoutCompleted, SessionID: "cs_404",
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_404").Return(nil, orderRepo.ErrOrderNotFound)

		res, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, OutcomeDiscarded, res.Outcome)
	})

	t.Run("cancelled booking is not revived", func(t *testing.T) {
		f := newFixture()
		order, booking := awaitingOrder(200), pendingBooking()
		booking.Status = domain.StatusCancelled
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			Type: payments.EventCheckoutCompleted, SessionID: "cs_1", AmountCents: 20000,
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_1").Return(order, nil)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

		res, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, OutcomeDiscarded, res.Outcome)
		assert.Equal(t, domain.StatusCancelled, booking.Status)
		assert.Empty(t, f.events.events)
	})
}

func TestUseCase_Unpaid(t *testing.T) {
	t.Run("expiry closes order once", func(t *testing.T) {
		f := newFixture()
		order := awaitingOrder(200)
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			Type: payments.EventCheckoutExpired, SessionID: "cs_1",
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_1").Return(order, nil)
		f.closer.On("CloseUnpaidTx", mock.Anything, order, domain.OrderExpired, "checkout session expired").
			Return(pendingBooking(), nil).Once()

		res, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, res.Outcome)

		res, err = f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, res.Outcome)
		f.closer.AssertNumberOfCalls(t, "CloseUnpaidTx", 1)
	})

	t.Run("failure carries provider reason", func(t *testing.T) {
		f := newFixture()
		order := awaitingOrder(200)
		f.parser.On("ParseWebhook", payload, "sig").Return(&payments.Event{
			Type: payments.EventCheckoutFailed, SessionID: "cs_1", FailureReason: "card_declined",
		}, nil)
		f.orders.On("GetBySessionID", mock.Anything, "cs_1").Return(order, nil)
		f.closer.On("CloseUnpaidTx", mock.Anything, order, domain.OrderFailed, "card_declined").Return(pendingBooking(), nil)

		_, err := f.uc.Execute(context.Background(), payload, "sig")
		require.NoError(t, err)
		f.closer.AssertExpectations(t)
	})
}

func TestUseCase_Rejected(t *testing.T) {
	f := newFixture()
	f.parser.On("ParseWebhook", payload, "bad").Return(nil, payments.ErrInvalidSignature)

	_, err := f.uc.Execute(context.Background(), payload, "bad")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, []string{"unknown:rejected"}, f.metrics.outcomes)
}
