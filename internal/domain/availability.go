package domain

import "time"

// Availability per-date, per-pet-type capacity record.
// Invariant: Booked + Blocked <= Total.
type Availability struct {
	ID              int64
	Date            time.Time
	PetType         PetType
	Total           int
	Booked          int
	Blocked         int
	PriceOverride   *float64
	PriceMultiplier *float64
	IsBlocked       bool
	BlockReason     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Available free places, clamped to zero. consistent=false when stored counters
// exceed the total, which callers log as a data integrity warning.
func (a *Availability) Available() (available int, consistent bool) {
	free := a.Total - a.Booked - a.Blocked
	consistent = free >= 0
	if a.IsBlocked || free < 0 {
		return 0, consistent
	}
	return free, consistent
}

// CanReserve true if count places are free
func (a *Availability) CanReserve(count int) bool {
	free, _ := a.Available()
	return count > 0 && free >= count
}

// RateFor per-date rate: override wins over multiplier
func (a *Availability) RateFor(base float64) float64 {
	if a.PriceOverride != nil {
		return *a.PriceOverride
	}
	if a.PriceMultiplier != nil {
		return RoundMoney(base * *a.PriceMultiplier)
	}
	return base
}

// AvailabilitySummary read model for a single date
type AvailabilitySummary struct {
	Date      time.Time `json:"date"`
	PetType   PetType   `json:"petType"`
	Available int       `json:"available"`
	Total     int       `json:"total"`
	IsBlocked bool      `json:"isBlocked"`
}
