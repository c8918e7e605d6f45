package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	orderRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/order"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	"github.com/m04kA/PetBoardingService/internal/service/orders/models"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	orders   *orderRepoMock
	bookings *bookingRepoMock
	provider *refundClientMock
	releaser *releaserMock
	audit    *auditRepoMock
	metrics  *metricsMock
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		orders:   &orderRepoMock{},
		bookings: &bookingRepoMock{},
		provider: &refundClientMock{},
		releaser: &releaserMock{},
		audit:    &auditRepoMock{},
		metrics:  &metricsMock{},
	}
	f.svc = NewService(f.orders, f.bookings, f.provider, f.releaser, f.audit, inlineTx{}, f.metrics, nopLogger{})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func paidOrder() *domain.Order {
	return &domain.Order{
		ID:                      7,
		OrderID:                 "ord_abc",
		BookingID:               42,
		ProviderSessionID:       ptr.Ptr("cs_1"),
		ProviderPaymentIntentID: ptr.Ptr("pi_1"),
		Amounts:                 domain.OrderAmounts{Total: 200, Charge: 200, Paid: 200},
		Currency:                "USD",
		Status:                  domain.OrderPaid,
	}
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            42,
		BookingNumber: "PB-20250310-ABC123",
		ServiceType:   domain.ServiceDogBoarding,
		PetType:       domain.PetTypeDog,
		Pets:          []domain.PetSnapshot{{Name: "Rex", Species: domain.PetTypeDog}},
		StartDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Pricing:       domain.BookingPricing{Total: 200},
	}
}

func TestService_Refund(t *testing.T) {
	t.Run("partial refund updates order and booking", func(t *testing.T) {
		f := newFixture()
		booking := pendingBooking()
		booking.Status = domain.StatusConfirmed
		booking.PaidAmount = 200
		booking.PaymentStatus = domain.PaymentPaid

		f.orders.On("GetByOrderID", mock.Anything, "ord_abc").Return(paidOrder(), nil)
		f.provider.On("CreateRefund", mock.Anything, mock.MatchedBy(func(r payments.RefundRequest) bool {
			return r.AmountCents == 5000 && r.PaymentIntentID == "pi_1"
		})).Return(&payments.RefundResult{ID: "re_1", Status: "succeeded"}, nil)
		f.orders.On("AddRefund", mock.Anything, mock.Anything).Return(&domain.Refund{}, nil)
		f.orders.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderPartiallyRefunded && o.Amounts.Refunded == 50
		})).Return(nil)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
		f.bookings.On("UpdateState", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.PaymentStatus == domain.PaymentPartiallyRefunded && b.RefundedAmount == 50
		})).Return(nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLog) bool {
			return e.Action == domain.AuditRefundIssued && e.EntityID == "ord_abc"
		})).Return(nil)

		resp, err := f.svc.Refund(context.Background(), 1, &models.RefundRequest{OrderID: "ord_abc", Amount: 50, Reason: "goodwill"})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPartiallyRefunded, resp.Status)
		require.Len(t, resp.Refunds, 1)
		assert.Equal(t, "goodwill", resp.Refunds[0].Reason)
		assert.Equal(t, []string{"admin"}, f.metrics.refunds)
	})

	t.Run("amount above paid is rejected before provider call", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetByOrderID", mock.Anything, "ord_abc").Return(paidOrder(), nil)

		_, err := f.svc.Refund(context.Background(), 1, &models.RefundRequest{OrderID: "ord_abc", Amount: 250})
		assert.ErrorIs(t, err, domain.ErrInvalidRefundAmount)
		f.provider.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
	})

	t.Run("unpaid order cannot be refunded", func(t *testing.T) {
		f := newFixture()
		order := paidOrder()
		order.Status = domain.OrderPending
		order.Amounts.Paid = 0
		f.orders.On("GetByOrderID", mock.Anything, "ord_abc").Return(order, nil)

		_, err := f.svc.Refund(context.Background(), 1, &models.RefundRequest{OrderID: "ord_abc"})
		assert.ErrorIs(t, err, domain.ErrInvalidRefundAmount)
	})

	t.Run("provider failure records nothing", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetByOrderID", mock.Anything, "ord_abc").Return(paidOrder(), nil)
		f.provider.On("CreateRefund", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := f.svc.Refund(context.Background(), 1, &models.RefundRequest{OrderID: "ord_abc", Amount: 10})
		assert.ErrorIs(t, err, ErrPaymentProvider)
		f.orders.AssertNotCalled(t, "AddRefund", mock.Anything, mock.Anything)
		assert.Empty(t, f.metrics.refunds)
	})

	t.Run("order not found", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetByOrderID", mock.Anything, "ord_x").Return(nil, orderRepo.ErrOrderNotFound)

		_, err := f.svc.Refund(context.Background(), 1, &models.RefundRequest{OrderID: "ord_x"})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_IssueRefund_StableKey(t *testing.T) {
	f := newFixture()
	var keys []string
	f.provider.On("CreateRefund", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		keys = append(keys, args.Get(1).(payments.RefundRequest).RefundID)
	}).Return(&payments.RefundResult{ID: "re_1", Status: "succeeded"}, nil)

	order := paidOrder()
	first, err := f.svc.IssueRefund(context.Background(), order, 200, "cancelled", nil)
	require.NoError(t, err)
	_, err = f.svc.IssueRefund(context.Background(), order, 200, "cancelled", nil)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, "ref_abc_0_20000", first.RefundID)

	order.Amounts.Refunded = 50
	next, err := f.svc.IssueRefund(context.Background(), order, 50, "goodwill", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefundID, next.RefundID)
}

func TestService_CloseUnpaidTx(t *testing.T) {
	t.Run("releases capacity once and marks payment failed", func(t *testing.T) {
		f := newFixture()
		order := paidOrder()
		order.Status = domain.OrderProcessing
		booking := pendingBooking()

		f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
		f.releaser.On("Release", mock.Anything, domain.PetTypeDog, booking.StayDates(), 1).Return(nil).Once()
		f.bookings.On("UpdateState", mock.Anything, booking).Return(nil)

		got, err := f.svc.CloseUnpaidTx(context.Background(), order, domain.OrderFailed, "card declined")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderFailed, order.Status)
		assert.Equal(t, domain.PaymentFailed, got.PaymentStatus)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.False(t, got.HoldsCapacity())

		// второй вызов для уже закрытого заказа ничего не делает
		got, err = f.svc.CloseUnpaidTx(context.Background(), order, domain.OrderExpired, "")
		require.NoError(t, err)
		assert.Nil(t, got)
		f.releaser.AssertNumberOfCalls(t, "Release", 1)
	})

	t.Run("cancelled booking keeps its state", func(t *testing.T) {
		f := newFixture()
		order := paidOrder()
		order.Status = domain.OrderPending
		booking := pendingBooking()
		booking.Status = domain.StatusCancelled

		f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

		_, err := f.svc.CloseUnpaidTx(context.Background(), order, domain.OrderExpired, "expired")
		require.NoError(t, err)
		f.releaser.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.bookings.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
	})
}

func TestService_ExpireStale(t *testing.T) {
	f := newFixture()
	stale := paidOrder()
	stale.Status = domain.OrderProcessing
	stale.ExpiresAt = fixedNow.Add(-time.Minute)

	paidMeanwhile := paidOrder()
	paidMeanwhile.OrderID = "ord_paid"

	f.orders.On("ListExpired", mock.Anything, fixedNow, expireBatchSize).Return([]*domain.Order{
		{OrderID: "ord_abc"}, {OrderID: "ord_paid"},
	}, nil)
	f.orders.On("GetByOrderID", mock.Anything, "ord_abc").Return(stale, nil)
	f.orders.On("GetByOrderID", mock.Anything, "ord_paid").Return(paidMeanwhile, nil)
	f.orders.On("UpdateStatus", mock.Anything, stale).Return(nil)
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)
	f.releaser.On("Release", mock.Anything, domain.PetTypeDog, mock.Anything, 1).Return(nil)
	f.bookings.On("UpdateState", mock.Anything, mock.Anything).Return(nil)

	n, err := f.svc.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, domain.OrderExpired, stale.Status)
	assert.Equal(t, domain.OrderPaid, paidMeanwhile.Status)
}

func TestService_History(t *testing.T) {
	f := newFixture()
	pending := paidOrder()
	pending.Status = domain.OrderProcessing
	pending.CheckoutURL = ptr.Ptr("https://pay.example/cs_1")
	settled := paidOrder()
	settled.CheckoutURL = ptr.Ptr("https://pay.example/cs_0")

	f.orders.On("ListByUser", mock.Anything, int64(5)).Return([]*domain.Order{pending, settled}, nil)

	resp, err := f.svc.History(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.NotNil(t, resp[0].CheckoutURL)
	assert.Nil(t, resp[1].CheckoutURL)
	assert.NotNil(t, resp[0].Refunds)
}
