package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/email"
	notificationRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/notification"
	"github.com/m04kA/PetBoardingService/internal/service/notifications/models"
)

// Service уведомления в кабинете и письма по событиям бронирований.
// Реализует queue.Handler.
type Service struct {
	repo     NotificationRepository
	bookings BookingFlags
	mailer   Mailer
	logger   Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(repo NotificationRepository, bookings BookingFlags, mailer Mailer, logger Logger) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		mailer:   mailer,
		logger:   logger,
	}
}

// HandleEvent создает уведомление и отправляет письмо.
// Ошибка возвращается только если уведомление не сохранено, сбой письма лишь логируется.
func (s *Service) HandleEvent(ctx context.Context, event domain.BookingEvent) error {
	s.logger.Info("HandleEvent: type=%s booking=%s", event.Type, event.BookingNumber)

	if n, ok := notificationFor(event); ok {
		if _, err := s.repo.Create(ctx, n); err != nil {
			s.logger.Error("HandleEvent: failed to create notification for booking=%s: %v", event.BookingNumber, err)
			return fmt.Errorf("%w: HandleEvent - repository error: %v", ErrInternal, err)
		}
	}

	msg, ok := email.ForEvent(event)
	if !ok || msg.To == "" {
		return nil
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("HandleEvent: email %s for booking=%s failed: %v", msg.Template, event.BookingNumber, err)
		return nil
	}

	if event.Type == domain.EventBookingCompleted {
		if err := s.bookings.MarkReviewRequested(ctx, event.BookingID); err != nil {
			s.logger.Warn("HandleEvent: failed to mark review requested for booking=%s: %v", event.BookingNumber, err)
		}
	}
	return nil
}

// List уведомления пользователя, новые первыми
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool) ([]models.NotificationResponse, error) {
	items, err := s.repo.ListByUser(ctx, userID, unreadOnly, domain.DefaultListLimit)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainList(items), nil
}

// MarkRead отмечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification=%d: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}
	return nil
}

func notificationFor(event domain.BookingEvent) (*domain.Notification, bool) {
	if event.UserID == nil {
		return nil, false
	}

	n := &domain.Notification{
		UserID:    *event.UserID,
		BookingID: &event.BookingID,
	}
	switch event.Type {
	case domain.EventBookingConfirmed:
		n.Type = domain.NotificationBookingConfirmed
		n.Title = "Booking confirmed"
		n.Message = fmt.Sprintf("Your booking %s is confirmed.", event.BookingNumber)
	case domain.EventBookingCancelled:
		n.Type = domain.NotificationBookingCancelled
		n.Title = "Booking cancelled"
		n.Message = fmt.Sprintf("Your booking %s was cancelled.", event.BookingNumber)
		if event.RefundedAmount > 0 {
			n.Message += fmt.Sprintf(" Refunded: $%.2f.", event.RefundedAmount)
		}
	case domain.EventBookingCompleted:
		n.Type = domain.NotificationReviewRequest
		n.Title = "How was the stay?"
		n.Message = fmt.Sprintf("Tell us about booking %s and leave a review.", event.BookingNumber)
	case domain.EventBookingReminder:
		n.Type = domain.NotificationStayReminder
		n.Title = "Check-in tomorrow"
		n.Message = fmt.Sprintf("Check-in for booking %s is on %s.",
			event.BookingNumber, event.StartDate.Format(domain.DateFormat))
	default:
		return nil, false
	}
	return n, true
}
