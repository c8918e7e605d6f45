package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	settingsRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/settings"
)

func TestService_CurrentFallsBackToDefaults(t *testing.T) {
	repo := &settingsRepoMock{}
	repo.On("Get", mock.Anything).Return(nil, settingsRepo.ErrSettingsNotFound)

	svc := NewService(repo, &auditRepoMock{}, Defaults{DiscountPolicy: domain.DiscountBestOf, SessionTTLMinutes: 45}, nopLogger{})

	s, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountBestOf, s.Discounts.Policy)
	assert.Equal(t, 45, s.CheckoutSessionTTLMinutes)
	assert.Equal(t, "usd", s.Currency)
	assert.Equal(t, 10, s.CapacityFor(domain.PetTypeCat))
}

func TestService_CurrentRepositoryError(t *testing.T) {
	repo := &settingsRepoMock{}
	repo.On("Get", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewService(repo, &auditRepoMock{}, Defaults{}, nopLogger{})

	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_CatalogHidesInactive(t *testing.T) {
	stored := domain.DefaultSystemSettings()
	stored.Services[2].Active = false
	stored.AddOns[0].Active = false

	repo := &settingsRepoMock{}
	repo.On("Get", mock.Anything).Return(stored, nil)

	svc := NewService(repo, &auditRepoMock{}, Defaults{}, nopLogger{})

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Services, 2)
	assert.Len(t, catalog.AddOns, 3)
	for _, a := range catalog.AddOns {
		assert.NotEqual(t, "grooming", a.ID)
	}
}

func TestService_Update(t *testing.T) {
	t.Run("saves and audits", func(t *testing.T) {
		repo := &settingsRepoMock{}
		audit := &auditRepoMock{}
		s := domain.DefaultSystemSettings()

		repo.On("Save", mock.Anything, s).Return(nil)
		audit.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLog) bool {
			return e.Action == domain.AuditSettingsUpdated && *e.ActorID == 7
		})).Return(nil)

		svc := NewService(repo, audit, Defaults{}, nopLogger{})
		resp, err := svc.Update(context.Background(), 7, s)
		require.NoError(t, err)
		require.NotNil(t, resp.UpdatedBy)
		assert.Equal(t, int64(7), *resp.UpdatedBy)
		repo.AssertExpectations(t)
		audit.AssertExpectations(t)
	})

	t.Run("rejects invalid policy", func(t *testing.T) {
		repo := &settingsRepoMock{}
		s := domain.DefaultSystemSettings()
		s.Discounts.Policy = "cheapest"

		svc := NewService(repo, &auditRepoMock{}, Defaults{}, nopLogger{})
		_, err := svc.Update(context.Background(), 1, s)
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("audit failure does not fail update", func(t *testing.T) {
		repo := &settingsRepoMock{}
		audit := &auditRepoMock{}
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := NewService(repo, audit, Defaults{}, nopLogger{})
		_, err := svc.Update(context.Background(), 1, domain.DefaultSystemSettings())
		assert.NoError(t, err)
	})
}
