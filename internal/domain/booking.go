package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// PaymentStatus orthogonal payment sub-state of a booking
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentDepositPaid       PaymentStatus = "deposit_paid"
	PaymentPaid              PaymentStatus = "paid"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentFailed            PaymentStatus = "failed"
)

// ServiceType kind of stay offered
type ServiceType string

const (
	ServiceCatBoarding ServiceType = "cat_boarding"
	ServiceDogBoarding ServiceType = "dog_boarding"
	ServiceDogDaycare  ServiceType = "dog_daycare"
)

// IsDaycare daycare is priced per day, boarding per night
func (s ServiceType) IsDaycare() bool {
	return s == ServiceDogDaycare
}

// PetType species bucket used by the availability ledger
type PetType string

const (
	PetTypeCat PetType = "cat"
	PetTypeDog PetType = "dog"
)

func (p PetType) Valid() bool {
	return p == PetTypeCat || p == PetTypeDog
}

// PetSnapshot denormalized pet details stored on the booking
type PetSnapshot struct {
	PetID        *int64   `json:"petId,omitempty"`
	Name         string   `json:"name"`
	Species      PetType  `json:"species"`
	Breed        string   `json:"breed,omitempty"`
	Size         string   `json:"size,omitempty"`
	AgeYears     *float64 `json:"ageYears,omitempty"`
	Vaccinated   bool     `json:"vaccinated"`
	SpecialNeeds string   `json:"specialNeeds,omitempty"`
}

// CustomerSnapshot customer contact at booking time
type CustomerSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingAddOn add-on line captured at checkout
type BookingAddOn struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PerDay    bool    `json:"perDay"`
	LineTotal float64 `json:"lineTotal"`
}

// BookingPricing price breakdown. Total == Subtotal + AddOnsTotal + Tax - Discount
type BookingPricing struct {
	DailyRate      float64
	Days           int
	Subtotal       float64
	AddOnsTotal    float64
	Discount       float64
	DiscountReason string
	Tax            float64
	Total          float64
}

// IsConsistent checks the total identity in cents
func (p BookingPricing) IsConsistent() bool {
	return ToCents(p.Total) == ToCents(p.Subtotal)+ToCents(p.AddOnsTotal)+ToCents(p.Tax)-ToCents(p.Discount)
}

// Booking reservation of boarding/daycare capacity
type Booking struct {
	ID            int64
	BookingNumber string
	UserID        *int64
	ServiceType   ServiceType
	PetType       PetType
	Pets          []PetSnapshot
	Customer      CustomerSnapshot

	StartDate      time.Time
	EndDate        time.Time
	ActualCheckIn  *time.Time
	ActualCheckOut *time.Time

	Status         BookingStatus
	PaymentStatus  PaymentStatus
	Pricing        BookingPricing
	PaidAmount     float64
	RefundedAmount float64
	AddOns         []BookingAddOn

	SpecialRequests *string
	ReminderSent    bool
	ReviewRequested bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions допустимые переходы статусов
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// CanTransitionTo reports whether next is reachable from the current status
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range transitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the booking to next and stamps check-in/check-out/cancel times
func (b *Booking) TransitionTo(next BookingStatus, at time.Time) error {
	if !b.CanTransitionTo(next) {
		return fmt.Errorf("%w: booking %s cannot move from %s to %s",
			ErrInvalidTransition, b.BookingNumber, b.Status, next)
	}

	switch next {
	case StatusInProgress:
		b.ActualCheckIn = &at
	case StatusCompleted:
		b.ActualCheckOut = &at
	case StatusCancelled:
		b.CancelledAt = &at
	}

	b.Status = next
	return nil
}

// IsTerminal no further transitions possible
func (b *Booking) IsTerminal() bool {
	return len(transitions[b.Status]) == 0
}

// HoldsCapacity true while the booking occupies availability.
// A pending booking whose payment failed or expired has already released its places.
func (b *Booking) HoldsCapacity() bool {
	if b.PaymentStatus == PaymentFailed {
		return false
	}
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusInProgress
}

// HasSettledPayment true once the deposit or the full amount is paid
func (b *Booking) HasSettledPayment() bool {
	return b.PaymentStatus == PaymentPaid || b.PaymentStatus == PaymentDepositPaid
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.CanTransitionTo(StatusCancelled)
}

// IsOwnedBy true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID != nil && *b.UserID == userID
}

// PetCount number of pets on the booking
func (b *Booking) PetCount() int {
	return len(b.Pets)
}

// RefundableAmount paid money not yet refunded
func (b *Booking) RefundableAmount() float64 {
	return RoundMoney(b.PaidAmount - b.RefundedAmount)
}

// ApplyPayment records a settled payment of amount against the booking
func (b *Booking) ApplyPayment(amount float64) {
	b.PaidAmount = RoundMoney(b.PaidAmount + amount)
	if b.PaidAmount > b.Pricing.Total {
		b.PaidAmount = b.Pricing.Total
	}
	if ToCents(b.PaidAmount) >= ToCents(b.Pricing.Total) {
		b.PaymentStatus = PaymentPaid
	} else {
		b.PaymentStatus = PaymentDepositPaid
	}
}

// ApplyRefund mirrors an order refund on the booking
func (b *Booking) ApplyRefund(amount float64) {
	b.RefundedAmount = RoundMoney(b.RefundedAmount + amount)
	if ToCents(b.RefundedAmount) >= ToCents(b.PaidAmount) {
		b.PaymentStatus = PaymentRefunded
	} else {
		b.PaymentStatus = PaymentPartiallyRefunded
	}
}

// StayDates calendar dates that consume capacity.
// Boarding occupies each night [start, end), daycare each day [start, end].
func (b *Booking) StayDates() []time.Time {
	return StayDates(b.ServiceType, b.StartDate, b.EndDate)
}

// BookingsFilter фильтр для выборки бронирований персоналом
type BookingsFilter struct {
	UserID    *int64
	Status    *BookingStatus
	PetType   *PetType
	StartDate *time.Time // бронирования, пересекающие период
	EndDate   *time.Time
	Limit     int
	Offset    int
}
