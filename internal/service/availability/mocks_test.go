package availability

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type availabilityRepoMock struct{ mock.Mock }

func (m *availabilityRepoMock) EnsureRows(ctx context.Context, petType domain.PetType, dates []time.Time, defaultTotal int) error {
	return m.Called(ctx, petType, dates, defaultTotal).Error(0)
}

func (m *availabilityRepoMock) GetByDates(ctx context.Context, petType domain.PetType, dates []time.Time) ([]*domain.Availability, error) {
	args := m.Called(ctx, petType, dates)
	rows, _ := args.Get(0).([]*domain.Availability)
	return rows, args.Error(1)
}

func (m *availabilityRepoMock) ListRange(ctx context.Context, petType domain.PetType, from, to time.Time) ([]*domain.Availability, error) {
	args := m.Called(ctx, petType, from, to)
	rows, _ := args.Get(0).([]*domain.Availability)
	return rows, args.Error(1)
}

func (m *availabilityRepoMock) IncrementBooked(ctx context.Context, petType domain.PetType, dates []time.Time, count int) (int64, error) {
	args := m.Called(ctx, petType, dates, count)
	return int64(args.Int(0)), args.Error(1)
}

func (m *availabilityRepoMock) ReleaseBooked(ctx context.Context, petType domain.PetType, dates []time.Time, count int) (int64, error) {
	args := m.Called(ctx, petType, dates, count)
	return int64(args.Int(0)), args.Error(1)
}

func (m *availabilityRepoMock) Upsert(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	args := m.Called(ctx, a)
	row, _ := args.Get(0).(*domain.Availability)
	return row, args.Error(1)
}

type staticSettings struct{ s *domain.SystemSettings }

func (p staticSettings) Current(context.Context) (*domain.SystemSettings, error) {
	return p.s, nil
}

type cacheMock struct{ mock.Mock }

func (m *cacheMock) Get(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, bool, error) {
	args := m.Called(ctx, petType, from, to)
	days, _ := args.Get(0).([]domain.AvailabilitySummary)
	return days, args.Bool(1), args.Error(2)
}

func (m *cacheMock) Set(ctx context.Context, petType domain.PetType, from, to time.Time, days []domain.AvailabilitySummary) error {
	return m.Called(ctx, petType, from, to, days).Error(0)
}

func (m *cacheMock) Invalidate(ctx context.Context, petType domain.PetType) error {
	return m.Called(ctx, petType).Error(0)
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, entry *domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTx) AfterCommit(ctx context.Context, fn func(ctx context.Context)) { fn(ctx) }

// deferredTx копит отложенные вызовы до commit
type deferredTx struct {
	inlineTx
	hooks []func(ctx context.Context)
}

func (d *deferredTx) AfterCommit(_ context.Context, fn func(ctx context.Context)) {
	d.hooks = append(d.hooks, fn)
}

func (d *deferredTx) commit(ctx context.Context) {
	for _, fn := range d.hooks {
		fn(ctx)
	}
	d.hooks = nil
}

type metricsMock struct{ rejected []string }

func (m *metricsMock) IncCapacityRejected(petType string) { m.rejected = append(m.rejected, petType) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
