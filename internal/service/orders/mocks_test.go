package orders

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
)

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).([]*domain.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error) {
	args := m.Called(ctx, now, limit)
	o, _ := args.Get(0).([]*domain.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *orderRepoMock) AddRefund(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	args := m.Called(ctx, refund)
	r, _ := args.Get(0).(*domain.Refund)
	return r, args.Error(1)
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

type refundClientMock struct{ mock.Mock }

func (m *refundClientMock) CreateRefund(ctx context.Context, in payments.RefundRequest) (*payments.RefundResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*payments.RefundResult)
	return r, args.Error(1)
}

type releaserMock struct{ mock.Mock }

func (m *releaserMock) Release(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error {
	return m.Called(ctx, petType, dates, count).Error(0)
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
