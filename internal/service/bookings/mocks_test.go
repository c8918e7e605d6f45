package bookings

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type bookingRepoMock struct{ mock.Mock }

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) ListForReminder(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, date)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *bookingRepoMock) UpdateState(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *bookingRepoMock) MarkReminderSent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) AddCompletedStay(ctx context.Context, id int64, spent float64, points int) error {
	return m.Called(ctx, id, spent, points).Error(0)
}

type releaserMock struct{ mock.Mock }

func (m *releaserMock) Release(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error {
	return m.Called(ctx, petType, dates, count).Error(0)
}

type publisherMock struct{ events []domain.BookingEvent }

func (m *publisherMock) Publish(_ context.Context, event domain.BookingEvent) error {
	m.events = append(m.events, event)
	return nil
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, entry *domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
