package domain

import "time"

// BookingEventType type of lifecycle event published to the queue
type BookingEventType string

const (
	EventBookingConfirmed BookingEventType = "booking.confirmed"
	EventBookingCancelled BookingEventType = "booking.cancelled"
	EventBookingCompleted BookingEventType = "booking.completed"
	EventBookingNoShow    BookingEventType = "booking.no_show"
	EventBookingReminder  BookingEventType = "booking.reminder"
)

// BookingEvent payload of lifecycle events
type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	BookingID      int64            `json:"bookingId"`
	BookingNumber  string           `json:"bookingNumber"`
	UserID         *int64           `json:"userId,omitempty"`
	CustomerName   string           `json:"customerName"`
	CustomerEmail  string           `json:"customerEmail"`
	ServiceType    ServiceType      `json:"serviceType"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        time.Time        `json:"endDate"`
	Total          float64          `json:"total"`
	RefundedAmount float64          `json:"refundedAmount,omitempty"`
	OccurredAt     time.Time        `json:"occurredAt"`
}

// NewBookingEvent builds an event from the booking snapshot
func NewBookingEvent(t BookingEventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:           t,
		BookingID:      b.ID,
		BookingNumber:  b.BookingNumber,
		UserID:         b.UserID,
		CustomerName:   b.Customer.Name,
		CustomerEmail:  b.Customer.Email,
		ServiceType:    b.ServiceType,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Total:          b.Pricing.Total,
		RefundedAmount: b.RefundedAmount,
		OccurredAt:     at,
	}
}
