package domain

import "time"

// PetSize size class
type PetSize string

const (
	SizeSmall  PetSize = "small"
	SizeMedium PetSize = "medium"
	SizeLarge  PetSize = "large"
	SizeGiant  PetSize = "giant"
)

// Vaccination vaccination record
type Vaccination struct {
	Name      string     `json:"name"`
	Date      time.Time  `json:"date"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Verified  bool       `json:"verified"`
}

// Pet owned by exactly one user, soft-deactivated instead of deleted
type Pet struct {
	ID             int64
	OwnerID        int64
	Name           string
	Species        PetType
	Breed          *string
	Size           *PetSize
	AgeYears       *float64
	WeightKg       *float64
	Vaccinated     bool
	SpayedNeutered bool
	Microchipped   bool
	Vaccinations   []Vaccination
	DietaryNotes   *string
	MedicalNotes   *string
	BehaviorNotes  *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Snapshot denormalized copy for a booking
func (p *Pet) Snapshot() PetSnapshot {
	id := p.ID
	s := PetSnapshot{
		PetID:      &id,
		Name:       p.Name,
		Species:    p.Species,
		AgeYears:   p.AgeYears,
		Vaccinated: p.Vaccinated,
	}
	if p.Breed != nil {
		s.Breed = *p.Breed
	}
	if p.Size != nil {
		s.Size = string(*p.Size)
	}
	if p.MedicalNotes != nil {
		s.SpecialNeeds = *p.MedicalNotes
	}
	return s
}
