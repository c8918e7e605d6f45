package settings

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type settingsRepoMock struct{ mock.Mock }

func (m *settingsRepoMock) Get(ctx context.Context) (*domain.SystemSettings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*domain.SystemSettings)
	return s, args.Error(1)
}

func (m *settingsRepoMock) Save(ctx context.Context, s *domain.SystemSettings) error {
	return m.Called(ctx, s).Error(0)
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, entry *domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
