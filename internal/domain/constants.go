package domain

// Business validation constants
const (
	MinPasswordLength           = 8
	MaxNameLength               = 100
	MaxPetsPerBooking           = 5
	MaxStayUnits                = 60
	MaxAdvanceBookingDays       = 365
	MaxSpecialRequestsLength    = 1000
	MaxCancellationReasonLength = 500
	MaxReviewCommentLength      = 2000
	MaxAvailabilityRangeDays    = 92
	DefaultListLimit            = 50
	MaxListLimit                = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// loyalty: 1 point per whole currency unit spent
const LoyaltyPointsPerUnit = 1

// ActiveStatuses бронирования, занимающие места
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses бронирования, не занимающие места
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseBookingStatus проверяет строковый статус
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return BookingStatus(s), true
	}
	return "", false
}
