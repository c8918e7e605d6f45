package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return fixedNow }

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) UpdateState(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) GetSettledByBookingID(ctx context.Context, bookingID int64) (*domain.Order, error) {
	args := m.Called(ctx, bookingID)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) CancelAwaitingByBooking(ctx context.Context, bookingID int64, reason string) (int64, error) {
	args := m.Called(ctx, bookingID, reason)
	return args.Get(0).(int64), args.Error(1)
}

type refundServiceMock struct{ mock.Mock }

func (m *refundServiceMock) IssueRefund(ctx context.Context, o *domain.Order, amount float64, reason string, actorID *int64) (*domain.Refund, error) {
	args := m.Called(ctx, o, amount, reason, actorID)
	r, _ := args.Get(0).(*domain.Refund)
	return r, args.Error(1)
}

// ApplyRefundTx отражает возврат на бронировании, как это делает сервис заказов
func (m *refundServiceMock) ApplyRefundTx(ctx context.Context, orderID string, r *domain.Refund) (*domain.Order, *domain.Booking, error) {
	args := m.Called(ctx, orderID, r)
	b, _ := args.Get(1).(*domain.Booking)
	if b != nil {
		b.ApplyRefund(r.Amount)
	}
	return nil, b, args.Error(2)
}

type capacityMock struct{ mock.Mock }

func (m *capacityMock) Release(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error {
	return m.Called(ctx, petType, dates, count).Error(0)
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

type metricsMock struct{ refunds []string }

func (m *metricsMock) IncRefund(reason string) { m.refunds = append(m.refunds, reason) }

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	bookings *bookingRepoMock
	orders   *orderRepoMock
	refunds  *refundServiceMock
	capacity *capacityMock
	events   *publisherMock
	audit    *auditRepoMock
	metrics  *metricsMock
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &bookingRepoMock{},
		orders:   &orderRepoMock{},
		refunds:  &refundServiceMock{},
		capacity: &capacityMock{},
		events:   &publisherMock{},
		audit:    &auditRepoMock{},
		metrics:  &metricsMock{},
	}
	f.uc = NewUseCase(f.bookings, f.orders, f.refunds, f.capacity, f.events, f.audit, inlineTx{}, f.metrics, nopLogger{})
	f.uc.timeProvider = fixedTime{}
	return f
}

var customer = &domain.User{ID: 5, Role: domain.RoleCustomer}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		BookingNumber: "PB-20250310-ABC123",
		UserID:        ptr.Ptr(int64(5)),
		ServiceType:   domain.ServiceType("cat_boarding"),
		PetType:       domain.PetType("cat"),
		Pets:          []domain.PetSnapshot{{Name: "Tom"}},
		StartDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPaid,
		Pricing:       domain.BookingPricing{Total: 50},
		PaidAmount:    50,
	}
}

func TestUseCase_Execute(t *testing.T) {
	t.Run("paid booking is refunded and released", func(t *testing.T) {
		f := newFixture()
		loaded, locked := confirmedBooking(), confirmedBooking()
		order := &domain.Order{OrderID: "ord_1", BookingID: 42, Status: domain.OrderPaid,
			Amounts: domain.OrderAmounts{Total: 50, Charge: 50, Paid: 50}}
		refund := &domain.Refund{RefundID: "ref_1", Amount: 50}

		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(loaded, nil).Once()
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(locked, nil).Once()
		f.orders.On("GetSettledByBookingID", mock.Anything, int64(42)).Return(order, nil)
		f.refunds.On("IssueRefund", mock.Anything, order, 50.0, refundReason, mock.Anything).Return(refund, nil)
		f.refunds.On("ApplyRefundTx", mock.Anything, "ord_1", refund).Return(nil, locked, nil)
		f.orders.On("CancelAwaitingByBooking", mock.Anything, int64(42), refundReason).Return(int64(0), nil)
		f.capacity.On("Release", mock.Anything, domain.PetType("cat"), locked.StayDates(), 1).Return(nil).Once()
		f.bookings.On("UpdateState", mock.Anything, locked).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.uc.Execute(context.Background(), &Request{Actor: customer, BookingID: 42, Reason: " plans changed "})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
		assert.Equal(t, domain.PaymentRefunded, resp.PaymentStatus)
		assert.Equal(t, 50.0, resp.RefundedAmount)
		assert.Equal(t, "ref_1", *resp.RefundID)
		assert.Equal(t, "plans changed", *locked.CancellationReason)
		assert.Equal(t, fixedNow, *locked.CancelledAt)
		assert.Equal(t, []string{"cancellation"}, f.metrics.refunds)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, domain.EventBookingCancelled, f.events.events[0].Type)
		f.capacity.AssertExpectations(t)
	})

	t.Run("unpaid pending booking releases without refund", func(t *testing.T) {
		f := newFixture()
		b := confirmedBooking()
		b.Status, b.PaymentStatus, b.PaidAmount = domain.StatusPending, domain.PaymentPending, 0

		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.orders.On("CancelAwaitingByBooking", mock.Anything, int64(42), refundReason).Return(int64(1), nil)
		f.capacity.On("Release", mock.Anything, domain.PetType("cat"), mock.Anything, 1).Return(nil).Once()
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.uc.Execute(context.Background(), &Request{Actor: customer, BookingID: 42})
		require.NoError(t, err)
		assert.Nil(t, resp.RefundID)
		assert.Empty(t, f.metrics.refunds)
		f.refunds.AssertNotCalled(t, "IssueRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed payment does not release twice", func(t *testing.T) {
		f := newFixture()
		b := confirmedBooking()
		b.Status, b.PaymentStatus, b.PaidAmount = domain.StatusPending, domain.PaymentFailed, 0

		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.orders.On("CancelAwaitingByBooking", mock.Anything, int64(42), refundReason).Return(int64(0), nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.Execute(context.Background(), &Request{Actor: customer, BookingID: 42})
		require.NoError(t, err)
		f.capacity.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign booking is denied", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)

		_, err := f.uc.Execute(context.Background(), &Request{Actor: &domain.User{ID: 9, Role: domain.RoleCustomer}, BookingID: 42})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("staff may cancel any booking", func(t *testing.T) {
		f := newFixture()
		b := confirmedBooking()
		b.PaymentStatus, b.PaidAmount = domain.PaymentPending, 0

		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.orders.On("CancelAwaitingByBooking", mock.Anything, int64(42), refundReason).Return(int64(0), nil)
		f.capacity.On("Release", mock.Anything, mock.Anything, mock.Anything, 1).Return(nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.Execute(context.Background(), &Request{Actor: &domain.User{ID: 1, Role: domain.RoleStaff}, BookingID: 42})
		require.NoError(t, err)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		f := newFixture()
		b := confirmedBooking()
		b.Status = domain.StatusCompleted
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)

		_, err := f.uc.Execute(context.Background(), &Request{Actor: customer, BookingID: 42})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := f.uc.Execute(context.Background(), &Request{Actor: customer, BookingID: 42})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("provider failure leaves booking untouched", func(t *testing.T) {
		f := newFixture()
		b := confirmedBooking()
		order := &domain.Order{OrderID: "ord_1", Status: domain.OrderPaid, Amounts: domain.OrderAmounts{Paid: 50}}
		providerErr := errors.New("provider down")

		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.orders.On("GetSettledByBookingID", mock.Anything, int64(42)).Return(order, nil)
		f.refunds.On("IssueRefund", mock.Anything, order, 50.0, refundReason, mock.Anything).Return(nil, providerErr)

		_, err := f.uc.Execute(context.Background(), &Request{Actor: customer, BookingID: 42})
		assert.ErrorIs(t, err, providerErr)
		assert.Equal(t, domain.StatusConfirmed, b.Status)
		f.bookings.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
	})
}
