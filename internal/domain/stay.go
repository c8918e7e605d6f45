package domain

import (
	"fmt"
	"math"
	"time"
)

// TruncateDate отбрасывает время, оставляя дату в UTC
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween число полных суток между датами
func DaysBetween(start, end time.Time) int {
	return int(TruncateDate(end).Sub(TruncateDate(start)).Hours() / 24)
}

// StayUnits nights for boarding, days for daycare. Invalid ranges yield 0.
func StayUnits(service ServiceType, start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	days := DaysBetween(start, end)
	if service.IsDaycare() {
		if days < 0 {
			return 0
		}
		return days + 1
	}
	if days < 0 {
		return 0
	}
	return days
}

// StayDates dates that consume capacity for the given stay
func StayDates(service ServiceType, start, end time.Time) []time.Time {
	units := StayUnits(service, start, end)
	dates := make([]time.Time, 0, units)
	first := TruncateDate(start)
	for i := 0; i < units; i++ {
		dates = append(dates, first.AddDate(0, 0, i))
	}
	return dates
}

// ValidateStayDates endDate > startDate, equal only for single-day daycare
func ValidateStayDates(service ServiceType, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: check-in and check-out dates are required", ErrValidation)
	}
	days := DaysBetween(start, end)
	if service.IsDaycare() {
		if days < 0 {
			return fmt.Errorf("%w: check-out date is before check-in date", ErrValidation)
		}
		return nil
	}
	if days <= 0 {
		return fmt.Errorf("%w: check-out date must be after check-in date", ErrValidation)
	}
	return nil
}

// RoundMoney round half away from zero to cents
func RoundMoney(v float64) float64 {
	return float64(ToCents(v)) / 100
}

// ToCents сумма в центах.
// Сдвиг на centEpsilon компенсирует двоичную ошибку: 1.005*100 = 100.4999...
func ToCents(v float64) int64 {
	return int64(math.Round(v*100 + math.Copysign(centEpsilon, v)))
}

const centEpsilon = 1e-9
