package email

import (
	"context"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// sendClient часть *sendgrid.Client, которую использует Mailer
type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// LogRepository журнал отправленных писем
type LogRepository interface {
	Create(ctx context.Context, entry *domain.EmailLog) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
