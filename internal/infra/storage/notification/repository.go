package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notifications").
		Columns("user_id", "type", "title", "message", "booking_id").
		Values(n.UserID, n.Type, n.Title, n.Message, n.BookingID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	n.CreatedAt = createdAt.Time
	return n, nil
}

// ListByUser уведомления пользователя, новые сверху
func (r *Repository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.Eq{"user_id": userID}
	if unreadOnly {
		where["is_read"] = false
	}

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "type", "title", "message", "booking_id", "is_read", "read_at", "created_at",
	).
		From("notifications").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Notification, 0)
	for rows.Next() {
		var (
			n         domain.Notification
			bookingID sql.NullInt64
			readAt    sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &bookingID, &n.IsRead, &readAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan notification: %v", ErrScanRow, err)
		}
		if bookingID.Valid {
			n.BookingID = &bookingID.Int64
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}

// MarkRead отмечает уведомление прочитанным, только для владельца
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("is_read", true).
		Set("read_at", squirrel.Expr("COALESCE(read_at, NOW())")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %v", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
