package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/availability/models"
)

// Service учет свободных мест по датам и типам питомцев
type Service struct {
	availabilityRepo AvailabilityRepository
	settings         SettingsProvider
	cache            RangeCache
	auditRepo        AuditRepository
	txManager        TransactionManager
	metrics          Metrics
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	settings SettingsProvider,
	cache RangeCache,
	auditRepo AuditRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		settings:         settings,
		cache:            cache,
		auditRepo:        auditRepo,
		txManager:        txManager,
		metrics:          metrics,
		logger:           logger,
	}
}

// GetAvailability свободные места на одну дату.
// Дата без строки учета получает емкость по умолчанию.
func (s *Service) GetAvailability(ctx context.Context, date time.Time, petType domain.PetType) (*domain.AvailabilitySummary, error) {
	if !petType.Valid() || date.IsZero() {
		return nil, fmt.Errorf("%w: date and petType are required", ErrInvalidInput)
	}

	days, err := s.load(ctx, petType, date, date)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}

// GetRange календарь доступности на [from, to], кэшируется в Redis
func (s *Service) GetRange(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, error) {
	from, to = domain.TruncateDate(from), domain.TruncateDate(to)

	if !petType.Valid() {
		return nil, fmt.Errorf("%w: unknown pet type %q", ErrInvalidInput, petType)
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	if domain.DaysBetween(from, to) >= domain.MaxAvailabilityRangeDays {
		return nil, fmt.Errorf("%w: range is limited to %d days", ErrInvalidInput, domain.MaxAvailabilityRangeDays)
	}

	cached, ok, err := s.cache.Get(ctx, petType, from, to)
	if err != nil {
		s.logger.Warn("GetRange: cache read failed for pet=%s: %v", petType, err)
	}
	if ok {
		return cached, nil
	}

	days, err := s.load(ctx, petType, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, petType, from, to, days); err != nil {
		s.logger.Warn("GetRange: cache write failed for pet=%s: %v", petType, err)
	}
	return days, nil
}

func (s *Service) load(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load - settings: %v", ErrInternal, err)
	}
	defaultTotal := settings.CapacityFor(petType)

	rows, err := s.availabilityRepo.ListRange(ctx, petType, from, to)
	if err != nil {
		s.logger.Error("load: repository error for pet=%s: %v", petType, err)
		return nil, fmt.Errorf("%w: load - repository error: %v", ErrInternal, err)
	}

	byDate := make(map[time.Time]*domain.Availability, len(rows))
	for _, row := range rows {
		byDate[domain.TruncateDate(row.Date)] = row
	}

	days := make([]domain.AvailabilitySummary, 0, domain.DaysBetween(from, to)+1)
	for d := domain.TruncateDate(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		row, ok := byDate[d]
		if !ok {
			days = append(days, domain.AvailabilitySummary{
				Date:      d,
				PetType:   petType,
				Available: defaultTotal,
				Total:     defaultTotal,
			})
			continue
		}

		available, consistent := row.Available()
		if !consistent {
			s.logger.Warn("load: data integrity warning pet=%s date=%s total=%d booked=%d blocked=%d",
				petType, d.Format(domain.DateFormat), row.Total, row.Booked, row.Blocked)
		}
		days = append(days, domain.AvailabilitySummary{
			Date:      d,
			PetType:   petType,
			Available: available,
			Total:     row.Total,
			IsBlocked: row.IsBlocked,
		})
	}
	return days, nil
}

// Reserve занимает count мест на все даты или не меняет ничего.
// Вызывается внутри транзакции оформления заказа, вложенный вызов присоединяется к ней.
func (s *Service) Reserve(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error {
	if !petType.Valid() || len(dates) == 0 || count <= 0 {
		return fmt.Errorf("%w: reserve needs pet type, dates and a positive count", ErrInvalidInput)
	}
	s.logger.Info("Reserve: pet=%s dates=%d count=%d from=%s",
		petType, len(dates), count, dates[0].Format(domain.DateFormat))

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return fmt.Errorf("%w: Reserve - settings: %v", ErrInternal, err)
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.availabilityRepo.EnsureRows(txCtx, petType, dates, settings.CapacityFor(petType)); err != nil {
			return fmt.Errorf("%w: Reserve - ensure rows: %w", ErrInternal, err)
		}

		rows, err := s.availabilityRepo.GetByDates(txCtx, petType, dates)
		if err != nil {
			return fmt.Errorf("%w: Reserve - lock rows: %w", ErrInternal, err)
		}
		if len(rows) != len(dates) {
			return fmt.Errorf("%w: Reserve - locked %d rows for %d dates", ErrInternal, len(rows), len(dates))
		}

		for _, row := range rows {
			if !row.CanReserve(count) {
				free, _ := row.Available()
				return fmt.Errorf("%w: %s on %s has %d free, %d requested",
					domain.ErrCapacityExceeded, petType, row.Date.Format(domain.DateFormat), free, count)
			}
		}

		if _, err := s.availabilityRepo.IncrementBooked(txCtx, petType, dates, count); err != nil {
			return fmt.Errorf("%w: Reserve - increment booked: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if isCapacityError(err) {
			s.metrics.IncCapacityRejected(string(petType))
			s.logger.Warn("Reserve: %v", err)
			return err
		}
		s.logger.Error("Reserve: failed for pet=%s: %v", petType, err)
		return err
	}

	s.invalidate(ctx, petType)
	return nil
}

// Release возвращает места; booked не опускается ниже нуля
func (s *Service) Release(ctx context.Context, petType domain.PetType, dates []time.Time, count int) error {
	if len(dates) == 0 || count <= 0 {
		return nil
	}
	s.logger.Info("Release: pet=%s dates=%d count=%d from=%s",
		petType, len(dates), count, dates[0].Format(domain.DateFormat))

	if _, err := s.availabilityRepo.ReleaseBooked(ctx, petType, dates, count); err != nil {
		s.logger.Error("Release: repository error for pet=%s: %v", petType, err)
		return fmt.Errorf("%w: Release - repository error: %w", ErrInternal, err)
	}

	s.invalidate(ctx, petType)
	return nil
}

// DailyRates ставки по датам с учетом переопределений цены.
// nil, если ни на одну дату нет переопределения, тогда используется базовая ставка.
func (s *Service) DailyRates(ctx context.Context, petType domain.PetType, dates []time.Time, base float64) ([]float64, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	rows, err := s.availabilityRepo.GetByDates(ctx, petType, dates)
	if err != nil {
		s.logger.Error("DailyRates: repository error for pet=%s: %v", petType, err)
		return nil, fmt.Errorf("%w: DailyRates - repository error: %v", ErrInternal, err)
	}

	byDate := make(map[time.Time]*domain.Availability, len(rows))
	overridden := false
	for _, row := range rows {
		byDate[domain.TruncateDate(row.Date)] = row
		if row.PriceOverride != nil || row.PriceMultiplier != nil {
			overridden = true
		}
	}
	if !overridden {
		return nil, nil
	}

	rates := make([]float64, 0, len(dates))
	for _, d := range dates {
		if row, ok := byDate[domain.TruncateDate(d)]; ok {
			rates = append(rates, row.RateFor(base))
			continue
		}
		rates = append(rates, base)
	}
	return rates, nil
}

// Upsert административная настройка даты. booked не меняется.
func (s *Service) Upsert(ctx context.Context, actorID int64, req *models.UpsertRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Upsert: pet=%s date=%s total=%d blocked=%d by user=%d",
		req.PetType, req.Date.Format(domain.DateFormat), req.Total, req.Blocked, actorID)

	if err := validateUpsert(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	row := req.ToDomain()
	var saved *domain.Availability

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.availabilityRepo.GetByDates(txCtx, row.PetType, []time.Time{row.Date})
		if err != nil {
			return fmt.Errorf("%w: Upsert - lock row: %v", ErrInternal, err)
		}
		if len(current) == 1 && current[0].Booked+row.Blocked > row.Total {
			return fmt.Errorf("%w: booked %d + blocked %d exceeds total %d",
				ErrInvalidInput, current[0].Booked, row.Blocked, row.Total)
		}

		saved, err = s.availabilityRepo.Upsert(txCtx, row)
		if err != nil {
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Upsert: %v", err)
		return nil, err
	}

	entry := domain.NewAuditLog(&actorID, domain.AuditAvailabilityUpdated, domain.EntityAvailability,
		fmt.Sprintf("%s:%s", saved.PetType, saved.Date.Format(domain.DateFormat)), models.FromDomainAvailability(saved))
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Upsert: failed to write audit log: %v", err)
	}

	s.invalidate(ctx, row.PetType)
	return models.FromDomainAvailability(saved), nil
}

// invalidate сбрасывает кэш после фиксации транзакции, иначе параллельное чтение закэширует старые счетчики
func (s *Service) invalidate(ctx context.Context, petType domain.PetType) {
	s.txManager.AfterCommit(ctx, func(ctx context.Context) {
		if err := s.cache.Invalidate(ctx, petType); err != nil {
			s.logger.Warn("invalidate: cache invalidation failed for pet=%s: %v", petType, err)
		}
	})
}

func validateUpsert(req *models.UpsertRequest) error {
	if !req.PetType.Valid() {
		return fmt.Errorf("%w: unknown pet type %q", ErrInvalidInput, req.PetType)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Total < 0 || req.Blocked < 0 {
		return fmt.Errorf("%w: total and blocked must not be negative", ErrInvalidInput)
	}
	if req.Blocked > req.Total {
		return fmt.Errorf("%w: blocked %d exceeds total %d", ErrInvalidInput, req.Blocked, req.Total)
	}
	if req.PriceOverride != nil && *req.PriceOverride < 0 {
		return fmt.Errorf("%w: priceOverride must not be negative", ErrInvalidInput)
	}
	if req.PriceMultiplier != nil && *req.PriceMultiplier <= 0 {
		return fmt.Errorf("%w: priceMultiplier must be positive", ErrInvalidInput)
	}
	return nil
}

func isCapacityError(err error) bool {
	return errors.Is(err, domain.ErrCapacityExceeded)
}
