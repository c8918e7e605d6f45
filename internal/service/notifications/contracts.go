package notifications

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/email"
)

// NotificationRepository интерфейс хранилища уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// BookingFlags отметки о разосланных письмах
type BookingFlags interface {
	MarkReviewRequested(ctx context.Context, id int64) error
}

// Mailer отправка писем клиенту
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
