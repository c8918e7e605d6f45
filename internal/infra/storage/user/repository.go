package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var userColumns = []string{
	"id",
	"email",
	"password_hash",
	"name",
	"phone",
	"role",
	"status",
	"token_version",
	"loyalty_points",
	"referral_code",
	"referred_by",
	"total_bookings",
	"total_spent",
	"last_login_at",
	"created_at",
	"updated_at",
}

// Repository учетные записи пользователей. Пользователи не удаляются.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create регистрирует пользователя. Email хранится в нижнем регистре.
func (r *Repository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	query, args, err := psqlbuilder.Insert("users").
		Columns(
			"email",
			"password_hash",
			"name",
			"phone",
			"role",
			"status",
			"referral_code",
			"referred_by",
		).
		Values(
			u.Email,
			u.PasswordHash,
			u.Name,
			u.Phone,
			u.Role,
			u.Status,
			u.ReferralCode,
			u.ReferredBy,
		).
		Suffix("RETURNING id, token_version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.TokenVersion, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "GetByEmail", squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var (
		u                    domain.User
		phone, referredBy    sql.NullString
		lastLogin            sql.NullTime
		createdAt, updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&phone,
		&u.Role,
		&u.Status,
		&u.TokenVersion,
		&u.LoyaltyPoints,
		&u.ReferralCode,
		&referredBy,
		&u.TotalBookings,
		&u.TotalSpent,
		&lastLogin,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan user: %v", ErrScanRow, op, err)
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if referredBy.Valid {
		u.ReferredBy = &referredBy.String
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time

	return &u, nil
}

// UpdateProfile обновляет имя и телефон
func (r *Repository) UpdateProfile(ctx context.Context, id int64, name string, phone *string) error {
	return r.update(ctx, "UpdateProfile", id, map[string]interface{}{
		"name":  name,
		"phone": phone,
	})
}

// TouchLastLogin фиксирует время входа
func (r *Repository) TouchLastLogin(ctx context.Context, id int64) error {
	return r.update(ctx, "TouchLastLogin", id, map[string]interface{}{
		"last_login_at": squirrel.Expr("NOW()"),
	})
}

// IncrementTokenVersion отзывает все выданные токены пользователя
func (r *Repository) IncrementTokenVersion(ctx context.Context, id int64) error {
	return r.update(ctx, "IncrementTokenVersion", id, map[string]interface{}{
		"token_version": squirrel.Expr("token_version + 1"),
	})
}

// AddCompletedStay обновляет счетчики после завершенного проживания
func (r *Repository) AddCompletedStay(ctx context.Context, id int64, spent float64, points int) error {
	return r.update(ctx, "AddCompletedStay", id, map[string]interface{}{
		"total_bookings": squirrel.Expr("total_bookings + 1"),
		"total_spent":    squirrel.Expr("total_spent + ?", spent),
		"loyalty_points": squirrel.Expr("loyalty_points + ?", points),
	})
}

func (r *Repository) update(ctx context.Context, op string, id int64, set map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	set["updated_at"] = squirrel.Expr("NOW()")
	query, args, err := psqlbuilder.Update("users").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
