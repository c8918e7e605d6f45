package pet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

var petColumns = []string{
	"id",
	"owner_id",
	"name",
	"species",
	"breed",
	"size",
	"age_years",
	"weight_kg",
	"vaccinated",
	"spayed_neutered",
	"microchipped",
	"vaccinations",
	"dietary_notes",
	"medical_notes",
	"behavior_notes",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository питомцы пользователей. Удаление = деактивация.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *domain.Pet) (*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	vaccinations := p.Vaccinations
	if vaccinations == nil {
		vaccinations = []domain.Vaccination{}
	}
	encoded, err := json.Marshal(vaccinations)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - vaccinations: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("pets").
		Columns(
			"owner_id",
			"name",
			"species",
			"breed",
			"size",
			"age_years",
			"weight_kg",
			"vaccinated",
			"spayed_neutered",
			"microchipped",
			"vaccinations",
			"dietary_notes",
			"medical_notes",
			"behavior_notes",
		).
		Values(
			p.OwnerID,
			p.Name,
			p.Species,
			p.Breed,
			p.Size,
			p.AgeYears,
			p.WeightKg,
			p.Vaccinated,
			p.SpayedNeutered,
			p.Microchipped,
			string(encoded),
			p.DietaryNotes,
			p.MedicalNotes,
			p.BehaviorNotes,
		).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.Vaccinations = vaccinations
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return p, nil
}

// ListByOwner активные питомцы пользователя
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(petColumns...).
		From("pets").
		Where(squirrel.Eq{"owner_id": ownerID, "is_active": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	pets := make([]*domain.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByOwner - scan pet: %v", ErrScanRow, err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - rows error: %v", ErrScanRow, err)
	}
	return pets, nil
}

// GetByID активный питомец
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(petColumns...).
		From("pets").
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPet(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan pet: %v", ErrScanRow, err)
	}
	return p, nil
}

// Deactivate мягкое удаление питомца владельцем
func (r *Repository) Deactivate(ctx context.Context, id, ownerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("pets").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPetNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPet(row rowScanner) (*domain.Pet, error) {
	var (
		p                          domain.Pet
		breed, size                sql.NullString
		age, weight                sql.NullFloat64
		vaccinations               []byte
		dietary, medical, behavior sql.NullString
		createdAt, updatedAt       sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Species,
		&breed,
		&size,
		&age,
		&weight,
		&p.Vaccinated,
		&p.SpayedNeutered,
		&p.Microchipped,
		&vaccinations,
		&dietary,
		&medical,
		&behavior,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(vaccinations) > 0 {
		if err := json.Unmarshal(vaccinations, &p.Vaccinations); err != nil {
			return nil, fmt.Errorf("decode vaccinations: %w", err)
		}
	}
	if breed.Valid {
		p.Breed = &breed.String
	}
	if size.Valid {
		s := domain.PetSize(size.String)
		p.Size = &s
	}
	if age.Valid {
		p.AgeYears = &age.Float64
	}
	if weight.Valid {
		p.WeightKg = &weight.Float64
	}
	if dietary.Valid {
		p.DietaryNotes = &dietary.String
	}
	if medical.Valid {
		p.MedicalNotes = &medical.String
	}
	if behavior.Valid {
		p.BehaviorNotes = &behavior.String
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
