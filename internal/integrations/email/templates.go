package email

import (
	"fmt"
	"html"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// Имена шаблонов для EmailLog
const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
	TemplateStayReminder     = "stay_reminder"
	TemplateReviewRequest    = "review_request"
)

// ForEvent письмо клиенту по событию бронирования.
// ok=false для событий без письма.
func ForEvent(event domain.BookingEvent) (Message, bool) {
	dates := fmt.Sprintf("%s to %s",
		event.StartDate.Format(domain.DateFormat), event.EndDate.Format(domain.DateFormat))

	msg := Message{To: event.CustomerEmail, ToName: event.CustomerName}

	switch event.Type {
	case domain.EventBookingConfirmed:
		msg.Template = TemplateBookingConfirmed
		msg.Subject = fmt.Sprintf("Booking %s confirmed", event.BookingNumber)
		msg.Text = fmt.Sprintf("Hi %s, your booking %s for %s is confirmed. Total: $%.2f.",
			event.CustomerName, event.BookingNumber, dates, event.Total)
	case domain.EventBookingCancelled:
		msg.Template = TemplateBookingCancelled
		msg.Subject = fmt.Sprintf("Booking %s cancelled", event.BookingNumber)
		msg.Text = fmt.Sprintf("Hi %s, your booking %s for %s was cancelled.",
			event.CustomerName, event.BookingNumber, dates)
		if event.RefundedAmount > 0 {
			msg.Text += fmt.Sprintf(" A refund of $%.2f is on its way.", event.RefundedAmount)
		}
	case domain.EventBookingReminder:
		msg.Template = TemplateStayReminder
		msg.Subject = fmt.Sprintf("See you tomorrow: booking %s", event.BookingNumber)
		msg.Text = fmt.Sprintf("Hi %s, a reminder that check-in for booking %s is on %s.",
			event.CustomerName, event.BookingNumber, event.StartDate.Format(domain.DateFormat))
	case domain.EventBookingCompleted:
		msg.Template = TemplateReviewRequest
		msg.Subject = "How was your pet's stay?"
		msg.Text = fmt.Sprintf("Hi %s, thanks for staying with us (booking %s). We would love to hear your review.",
			event.CustomerName, event.BookingNumber)
	default:
		return Message{}, false
	}

	msg.HTML = "<html><body><p>" + html.EscapeString(msg.Text) + "</p></body></html>"
	return msg, true
}
