package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/pricing"
	"github.com/m04kA/PetBoardingService/internal/service/quotes/models"
)

// Service расчет стоимости проживания без побочных эффектов
type Service struct {
	settings SettingsProvider
	rates    RateProvider
	logger   Logger
	now      func() time.Time
}

// NewService создает новый экземпляр сервиса расчета стоимости
func NewService(settings SettingsProvider, rates RateProvider, logger Logger) *Service {
	return &Service{
		settings: settings,
		rates:    rates,
		logger:   logger,
		now:      time.Now,
	}
}

// Quote публичный расчет стоимости
func (s *Service) Quote(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	prepared, err := s.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return models.FromPrepared(prepared), nil
}

// Prepare проверяет выбор клиента по настройкам и считает стоимость.
// Клиентская сумма не используется: результат расчета на сервере окончательный.
func (s *Service) Prepare(ctx context.Context, req *models.QuoteRequest) (*models.Prepared, error) {
	req.StartDate = domain.TruncateDate(req.StartDate)
	req.EndDate = domain.TruncateDate(req.EndDate)

	settings, err := s.settings.Current(ctx)
	if err != nil {
		s.logger.Error("Prepare: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: Prepare - settings: %v", ErrInternal, err)
	}

	svc, ok := settings.Service(req.ServiceType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, req.ServiceType)
	}
	if req.PetType == "" {
		req.PetType = svc.PetType
	}
	if req.PetType != svc.PetType {
		return nil, fmt.Errorf("%w: service %s is for %s, not %s", ErrInvalidInput, svc.Type, svc.PetType, req.PetType)
	}

	if err := s.validateDates(req); err != nil {
		return nil, err
	}

	pets := req.NamedPets()
	if len(pets) == 0 {
		return nil, fmt.Errorf("%w: at least one pet with a name is required", ErrInvalidInput)
	}
	if len(pets) > domain.MaxPetsPerBooking {
		return nil, fmt.Errorf("%w: at most %d pets per booking", ErrInvalidInput, domain.MaxPetsPerBooking)
	}
	for _, p := range pets {
		if p.Species != "" && p.Species != req.PetType {
			return nil, fmt.Errorf("%w: pet %s is a %s", ErrInvalidInput, p.Name, p.Species)
		}
	}

	dates := domain.StayDates(req.ServiceType, req.StartDate, req.EndDate)
	units := len(dates)

	dailyRates, err := s.rates.DailyRates(ctx, req.PetType, dates, svc.Price)
	if err != nil {
		s.logger.Error("Prepare: failed to load daily rates: %v", err)
		return nil, fmt.Errorf("%w: Prepare - daily rates: %v", ErrInternal, err)
	}

	input, err := pricing.BuildInput(settings, pricing.Selection{
		ServiceType: req.ServiceType,
		Units:       units,
		PetCount:    len(pets),
		AddOnIDs:    req.AddOnIDs,
		DailyRates:  dailyRates,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownAddOn) || errors.Is(err, pricing.ErrUnknownService) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: Prepare - build input: %v", ErrInternal, err)
	}

	quote := pricing.Calculate(input)
	if quote.IsZero() {
		return nil, fmt.Errorf("%w: empty stay", ErrInvalidInput)
	}

	s.logger.Info("Prepare: service=%s pets=%d units=%d total=%.2f discount=%.2f (%s)",
		req.ServiceType, len(pets), units, quote.Total, quote.Discount, quote.DiscountReason)

	return &models.Prepared{
		Request:  req,
		Settings: settings,
		Service:  svc,
		Dates:    dates,
		Pets:     pets,
		Quote:    quote,
	}, nil
}

func (s *Service) validateDates(req *models.QuoteRequest) error {
	if err := domain.ValidateStayDates(req.ServiceType, req.StartDate, req.EndDate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	today := domain.TruncateDate(s.now().UTC())
	if req.StartDate.Before(today) {
		return fmt.Errorf("%w: check-in date is in the past", ErrInvalidInput)
	}
	if domain.DaysBetween(today, req.StartDate) > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: check-in date is more than %d days ahead", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}
	if domain.StayUnits(req.ServiceType, req.StartDate, req.EndDate) > domain.MaxStayUnits {
		return fmt.Errorf("%w: stay is longer than %d units", ErrInvalidInput, domain.MaxStayUnits)
	}
	return nil
}
