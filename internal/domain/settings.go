package domain

import (
	"fmt"
	"time"
)

// ServiceUnit pricing unit of a service
type ServiceUnit string

const (
	UnitNight ServiceUnit = "night"
	UnitDay   ServiceUnit = "day"
)

// DiscountPolicy how multi-pet and long-stay discounts combine
type DiscountPolicy string

const (
	DiscountStacked DiscountPolicy = "stacked"
	DiscountBestOf  DiscountPolicy = "best-of"
)

// ServiceDefinition priced service offered to customers
type ServiceDefinition struct {
	Type     ServiceType `json:"type"`
	Name     string      `json:"name"`
	PetType  PetType     `json:"petType"`
	Price    float64     `json:"price"`
	Unit     ServiceUnit `json:"unit"`
	Features []string    `json:"features"`
	Active   bool        `json:"active"`
}

// AddOnDefinition optional extra, flat or per day
type AddOnDefinition struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	PerDay bool    `json:"perDay"`
	Active bool    `json:"active"`
}

// DiscountRules discount configuration
type DiscountRules struct {
	MultiPetRate   float64        `json:"multiPetRate"`
	LongStayRate   float64        `json:"longStayRate"`
	LongStayNights int            `json:"longStayNights"`
	Policy         DiscountPolicy `json:"policy"`
}

// SystemSettings business configuration persisted as a single document
type SystemSettings struct {
	Services                  []ServiceDefinition `json:"services"`
	AddOns                    []AddOnDefinition   `json:"addOns"`
	Discounts                 DiscountRules       `json:"discounts"`
	TaxRate                   float64             `json:"taxRate"`
	Currency                  string              `json:"currency"`
	DefaultCapacity           map[PetType]int     `json:"defaultCapacity"`
	DepositPercent            float64             `json:"depositPercent"`
	CheckoutSessionTTLMinutes int                 `json:"checkoutSessionTtlMinutes"`

	UpdatedBy *int64    `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DefaultSystemSettings значения по умолчанию, если настройки еще не сохранены
func DefaultSystemSettings() *SystemSettings {
	return &SystemSettings{
		Services: []ServiceDefinition{
			{
				Type:     ServiceCatBoarding,
				Name:     "Cat Boarding",
				PetType:  PetTypeCat,
				Price:    25,
				Unit:     UnitNight,
				Features: []string{"Private condo", "Twice-daily feeding", "Daily play session"},
				Active:   true,
			},
			{
				Type:     ServiceDogBoarding,
				Name:     "Dog Boarding",
				PetType:  PetTypeDog,
				Price:    40,
				Unit:     UnitNight,
				Features: []string{"Indoor suite", "Three walks a day", "Group play time"},
				Active:   true,
			},
			{
				Type:     ServiceDogDaycare,
				Name:     "Dog Daycare",
				PetType:  PetTypeDog,
				Price:    30,
				Unit:     UnitDay,
				Features: []string{"Supervised play", "Midday snack", "Nap time"},
				Active:   true,
			},
		},
		AddOns: []AddOnDefinition{
			{ID: "grooming", Name: "Grooming", Price: 35, PerDay: false, Active: true},
			{ID: "photo_updates", Name: "Daily photo updates", Price: 5, PerDay: true, Active: true},
			{ID: "extra_walk", Name: "Extra walk", Price: 10, PerDay: true, Active: true},
			{ID: "medication", Name: "Medication administration", Price: 3, PerDay: true, Active: true},
		},
		Discounts: DiscountRules{
			MultiPetRate:   0.10,
			LongStayRate:   0.05,
			LongStayNights: 7,
			Policy:         DiscountStacked,
		},
		TaxRate:  0,
		Currency: "usd",
		DefaultCapacity: map[PetType]int{
			PetTypeCat: 10,
			PetTypeDog: 15,
		},
		DepositPercent:            0.25,
		CheckoutSessionTTLMinutes: 30,
	}
}

// Service finds an active service definition
func (s *SystemSettings) Service(t ServiceType) (*ServiceDefinition, bool) {
	for i := range s.Services {
		if s.Services[i].Type == t && s.Services[i].Active {
			return &s.Services[i], true
		}
	}
	return nil, false
}

// AddOn finds an active add-on definition
func (s *SystemSettings) AddOn(id string) (*AddOnDefinition, bool) {
	for i := range s.AddOns {
		if s.AddOns[i].ID == id && s.AddOns[i].Active {
			return &s.AddOns[i], true
		}
	}
	return nil, false
}

// CapacityFor default daily capacity for the pet type
func (s *SystemSettings) CapacityFor(pt PetType) int {
	return s.DefaultCapacity[pt]
}

// Validate checks business settings before they are persisted
func (s *SystemSettings) Validate() error {
	if len(s.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrValidation)
	}

	seen := make(map[ServiceType]bool, len(s.Services))
	for _, svc := range s.Services {
		if svc.Type == "" || svc.Name == "" {
			return fmt.Errorf("%w: service type and name are required", ErrValidation)
		}
		if seen[svc.Type] {
			return fmt.Errorf("%w: duplicate service %s", ErrValidation, svc.Type)
		}
		seen[svc.Type] = true
		if !svc.PetType.Valid() {
			return fmt.Errorf("%w: service %s has invalid pet type %q", ErrValidation, svc.Type, svc.PetType)
		}
		if svc.Price < 0 {
			return fmt.Errorf("%w: service %s has negative price", ErrValidation, svc.Type)
		}
		if svc.Unit != UnitNight && svc.Unit != UnitDay {
			return fmt.Errorf("%w: service %s has invalid unit %q", ErrValidation, svc.Type, svc.Unit)
		}
	}

	addOnIDs := make(map[string]bool, len(s.AddOns))
	for _, a := range s.AddOns {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("%w: add-on id and name are required", ErrValidation)
		}
		if addOnIDs[a.ID] {
			return fmt.Errorf("%w: duplicate add-on %s", ErrValidation, a.ID)
		}
		addOnIDs[a.ID] = true
		if a.Price < 0 {
			return fmt.Errorf("%w: add-on %s has negative price", ErrValidation, a.ID)
		}
	}

	d := s.Discounts
	if d.MultiPetRate < 0 || d.MultiPetRate >= 1 || d.LongStayRate < 0 || d.LongStayRate >= 1 {
		return fmt.Errorf("%w: discount rates must be in [0, 1)", ErrValidation)
	}
	if d.LongStayNights < 0 {
		return fmt.Errorf("%w: longStayNights must not be negative", ErrValidation)
	}
	if d.Policy != DiscountStacked && d.Policy != DiscountBestOf {
		return fmt.Errorf("%w: discount policy must be %q or %q", ErrValidation, DiscountStacked, DiscountBestOf)
	}

	if s.TaxRate < 0 || s.TaxRate >= 1 {
		return fmt.Errorf("%w: taxRate must be in [0, 1)", ErrValidation)
	}
	if s.DepositPercent < 0 || s.DepositPercent > 1 {
		return fmt.Errorf("%w: depositPercent must be in [0, 1]", ErrValidation)
	}
	for pt, c := range s.DefaultCapacity {
		if !pt.Valid() || c < 0 {
			return fmt.Errorf("%w: invalid default capacity for %q", ErrValidation, pt)
		}
	}
	if s.CheckoutSessionTTLMinutes <= 0 {
		return fmt.Errorf("%w: checkoutSessionTtlMinutes must be positive", ErrValidation)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrValidation)
	}

	return nil
}
