package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отзыв. Один отзыв на бронирование.
func (r *Repository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reviews").
		Columns("booking_id", "user_id", "author_name", "rating", "comment", "is_published").
		Values(rv.BookingID, rv.UserID, rv.AuthorName, rv.Rating, rv.Comment, rv.IsPublished).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rv.ID, &createdAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	rv.CreatedAt = createdAt.Time
	return rv, nil
}

// ListPublished опубликованные отзывы, новые сверху
func (r *Repository) ListPublished(ctx context.Context, limit int) ([]*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "booking_id", "user_id", "author_name", "rating", "comment", "is_published", "created_at",
	).
		From("reviews").
		Where(squirrel.Eq{"is_published": true}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPublished - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPublished - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.UserID, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.IsPublished, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListPublished - scan review: %v", ErrScanRow, err)
		}
		result = append(result, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPublished - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}
