package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

var (
	// ErrSend письмо не отправлено
	ErrSend = errors.New("email: failed to send")

	// ErrNoRecipient у письма нет адреса
	ErrNoRecipient = errors.New("email: recipient is empty")
)

const messageIDHeader = "X-Message-Id"

// Message письмо к отправке
type Message struct {
	To       string
	ToName   string
	Template string
	Subject  string
	Text     string
	HTML     string
}

// Mailer отправляет письма через SendGrid и пишет результат в EmailLog.
// Выключенный Mailer только журналирует письмо со статусом skipped.
type Mailer struct {
	client    sendClient
	fromEmail string
	fromName  string
	enabled   bool
	logs      LogRepository
	log       Logger
}

func NewMailer(apiKey, fromEmail, fromName string, enabled bool, logs LogRepository, log Logger) *Mailer {
	return &Mailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   enabled,
		logs:      logs,
		log:       log,
	}
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	entry := &domain.EmailLog{
		Recipient: msg.To,
		Template:  msg.Template,
		Subject:   msg.Subject,
		Status:    domain.EmailSkipped,
	}

	var sendErr error
	if m.enabled {
		sendErr = m.send(ctx, msg, entry)
	}

	if err := m.logs.Create(ctx, entry); err != nil {
		m.log.Warn("Mailer.Send: failed to write email log to=%s template=%s: %v", msg.To, msg.Template, err)
	}
	return sendErr
}

func (m *Mailer) send(ctx context.Context, msg Message, entry *domain.EmailLog) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("status %d: %s", resp.StatusCode, resp.Body)
	}
	if err != nil {
		reason := err.Error()
		entry.Status = domain.EmailFailed
		entry.Error = &reason
		m.log.Error("Mailer.Send: to=%s template=%s: %v", msg.To, msg.Template, err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	entry.Status = domain.EmailSent
	if ids := resp.Headers[messageIDHeader]; len(ids) > 0 {
		entry.ProviderMessageID = &ids[0]
	}
	m.log.Info("Mailer.Send: to=%s template=%s", msg.To, msg.Template)
	return nil
}
