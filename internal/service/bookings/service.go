package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
	"github.com/m04kA/PetBoardingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	capacity    CapacityReleaser
	events      EventPublisher
	auditRepo   AuditRepository
	txManager   TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	capacity CapacityReleaser,
	events EventPublisher,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		capacity:    capacity,
		events:      events,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

// GetUserBookings история бронирований пользователя
func (s *Service) GetUserBookings(ctx context.Context, userID int64) (*models.BookingListResponse, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// List бронирования для персонала с фильтрацией по статусу, виду питомца и периоду
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.BookingListResponse, error) {
	filter, ok := req.ToDomainFilter()
	if !ok {
		s.logger.Warn("List: invalid filter status=%v petType=%v", req.Status, req.PetType)
		return nil, fmt.Errorf("%w: invalid status or petType filter", ErrInvalidInput)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование персоналом.
// Отмена идет через сценарий отмены с возвратом денег, здесь она отклоняется.
// Подтверждение без оплаченного депозита отклоняется.
func (s *Service) UpdateStatus(ctx context.Context, actorID, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d to status=%s by user=%d", bookingID, req.Status, actorID)

	next, ok := domain.ParseBookingStatus(req.Status)
	if !ok || next == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: unsupported status=%s for booking id=%d", req.Status, bookingID)
		return nil, ErrInvalidStatus
	}
	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := s.now().UTC()
	var (
		booking *domain.Booking
		prev    domain.BookingStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
		}

		prev = booking.Status
		heldCapacity := booking.HoldsCapacity()
		// подтверждение идет от оплаты, без нее места не удерживаются
		if next == domain.StatusConfirmed && !booking.HasSettledPayment() {
			return fmt.Errorf("%w: booking %s has payment status %s",
				domain.ErrInvalidTransition, booking.BookingNumber, booking.PaymentStatus)
		}
		if err := booking.TransitionTo(next, now); err != nil {
			return err
		}

		switch next {
		case domain.StatusNoShow:
			if reason != "" {
				booking.CancellationReason = &reason
			}
			if heldCapacity {
				if err := s.capacity.Release(txCtx, booking.PetType, booking.StayDates(), booking.PetCount()); err != nil {
					return fmt.Errorf("%w: UpdateStatus - release capacity: %w", ErrInternal, err)
				}
			}
		case domain.StatusCompleted:
			if booking.UserID != nil {
				points := int(booking.Pricing.Total) * domain.LoyaltyPointsPerUnit
				if err := s.userRepo.AddCompletedStay(txCtx, *booking.UserID, booking.Pricing.Total, points); err != nil {
					return fmt.Errorf("%w: UpdateStatus - user totals: %w", ErrInternal, err)
				}
			}
		}

		if err := s.bookingRepo.UpdateState(txCtx, booking); err != nil {
			return fmt.Errorf("%w: UpdateStatus - update booking: %w", ErrInternal, err)
		}

		entry := domain.NewAuditLog(&actorID, domain.AuditBookingStatusChanged, domain.EntityBooking,
			domain.EntityRef(booking.ID), map[string]interface{}{
				"bookingNumber": booking.BookingNumber,
				"from":          prev,
				"to":            next,
				"reason":        reason,
			})
		if err := s.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: UpdateStatus - audit: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: %v", err)
			return nil, err
		}
		s.logger.Error("UpdateStatus: booking id=%d: %v", bookingID, err)
		return nil, err
	}

	s.logger.Info("UpdateStatus: booking=%s moved %s -> %s", booking.BookingNumber, prev, next)

	if eventType, ok := statusEvents[next]; ok {
		s.publish(ctx, domain.NewBookingEvent(eventType, booking, now))
	}
	return models.FromDomainBooking(booking), nil
}

var statusEvents = map[domain.BookingStatus]domain.BookingEventType{
	domain.StatusConfirmed: domain.EventBookingConfirmed,
	domain.StatusCompleted: domain.EventBookingCompleted,
	domain.StatusNoShow:    domain.EventBookingNoShow,
}

// SendStayReminders публикует напоминания о заезде на завтра.
// Возвращает число отправленных напоминаний.
func (s *Service) SendStayReminders(ctx context.Context) (int, error) {
	now := s.now().UTC()
	tomorrow := domain.TruncateDate(now).AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.ListForReminder(ctx, tomorrow)
	if err != nil {
		s.logger.Error("SendStayReminders: repository error: %v", err)
		return 0, fmt.Errorf("%w: SendStayReminders - repository error: %v", ErrInternal, err)
	}

	sent := 0
	for _, b := range bookings {
		if err := s.events.Publish(ctx, domain.NewBookingEvent(domain.EventBookingReminder, b, now)); err != nil {
			s.logger.Error("SendStayReminders: publish failed for booking=%s: %v", b.BookingNumber, err)
			continue
		}
		if err := s.bookingRepo.MarkReminderSent(ctx, b.ID); err != nil {
			s.logger.Error("SendStayReminders: failed to mark booking=%s: %v", b.BookingNumber, err)
			continue
		}
		sent++
	}

	if len(bookings) > 0 {
		s.logger.Info("SendStayReminders: sent %d of %d reminders for %s", sent, len(bookings), tomorrow.Format(domain.DateFormat))
	}
	return sent, nil
}

func (s *Service) publish(ctx context.Context, event domain.BookingEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("publish: event=%s booking=%s: %v", event.Type, event.BookingNumber, err)
	}
}
