package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/domain"
	settingsRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/settings"
	"github.com/m04kA/PetBoardingService/internal/service/settings/models"
)

// Defaults значения из конфигурации для первого запуска, пока настройки не сохранены
type Defaults struct {
	DiscountPolicy    domain.DiscountPolicy
	TaxRate           float64
	Currency          string
	DepositPercent    float64
	SessionTTLMinutes int
}

// Service сервис системных настроек
type Service struct {
	settingsRepo SettingsRepository
	auditRepo    AuditRepository
	defaults     Defaults
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	auditRepo AuditRepository,
	defaults Defaults,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

// Current действующие настройки. Если строка еще не сохранена, отдаются значения по умолчанию.
func (s *Service) Current(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Current: repository error: %v", err)
		return nil, fmt.Errorf("%w: Current - repository error: %v", ErrInternal, err)
	}

	return s.fallback(), nil
}

func (s *Service) fallback() *domain.SystemSettings {
	settings := domain.DefaultSystemSettings()
	if s.defaults.DiscountPolicy != "" {
		settings.Discounts.Policy = s.defaults.DiscountPolicy
	}
	if s.defaults.TaxRate > 0 {
		settings.TaxRate = s.defaults.TaxRate
	}
	if s.defaults.Currency != "" {
		settings.Currency = s.defaults.Currency
	}
	if s.defaults.DepositPercent > 0 {
		settings.DepositPercent = s.defaults.DepositPercent
	}
	if s.defaults.SessionTTLMinutes > 0 {
		settings.CheckoutSessionTTLMinutes = s.defaults.SessionTTLMinutes
	}
	return settings
}

// Catalog публичный список активных услуг и опций
func (s *Service) Catalog(ctx context.Context) (*models.CatalogResponse, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainCatalog(settings), nil
}

// Get настройки целиком для администратора
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// Update проверяет и сохраняет настройки, изменение пишется в аудит
func (s *Service) Update(ctx context.Context, actorID int64, settings *domain.SystemSettings) (*models.SettingsResponse, error) {
	s.logger.Info("Update: saving settings by user=%d", actorID)

	if err := settings.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	settings.UpdatedBy = &actorID
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	entry := domain.NewAuditLog(&actorID, domain.AuditSettingsUpdated, domain.EntitySettings, "system", settings)
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Update: failed to write audit log: %v", err)
	}

	s.logger.Info("Update: settings saved by user=%d", actorID)
	return models.FromDomainSettings(settings), nil
}
