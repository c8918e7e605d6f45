package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"booking_number",
	"user_id",
	"service_type",
	"pet_type",
	"pets",
	"customer",
	"start_date",
	"end_date",
	"actual_check_in",
	"actual_check_out",
	"status",
	"payment_status",
	"daily_rate",
	"days",
	"subtotal",
	"add_ons_total",
	"discount",
	"discount_reason",
	"tax",
	"total",
	"paid_amount",
	"refunded_amount",
	"add_ons",
	"special_requests",
	"reminder_sent",
	"review_requested",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри сериализуемой транзакции резервирования мест.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	pets, err := json.Marshal(booking.Pets)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - pets: %v", ErrEncode, err)
	}
	customer, err := json.Marshal(booking.Customer)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - customer: %v", ErrEncode, err)
	}
	addOns, err := json.Marshal(nonNilAddOns(booking.AddOns))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - add-ons: %v", ErrEncode, err)
	}

	p := booking.Pricing
	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_number",
			"user_id",
			"service_type",
			"pet_type",
			"pets",
			"customer",
			"start_date",
			"end_date",
			"status",
			"payment_status",
			"daily_rate",
			"days",
			"subtotal",
			"add_ons_total",
			"discount",
			"discount_reason",
			"tax",
			"total",
			"paid_amount",
			"refunded_amount",
			"add_ons",
			"special_requests",
		).
		Values(
			booking.BookingNumber,
			booking.UserID,
			booking.ServiceType,
			booking.PetType,
			string(pets),
			string(customer),
			booking.StartDate,
			booking.EndDate,
			booking.Status,
			booking.PaymentStatus,
			p.DailyRate,
			p.Days,
			p.Subtotal,
			p.AddOnsTotal,
			p.Discount,
			p.DiscountReason,
			p.Tax,
			p.Total,
			booking.PaidAmount,
			booking.RefundedAmount,
			string(addOns),
			booking.SpecialRequests,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, booking.BookingNumber)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListByUser бронирования пользователя, новые сверху
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	return r.List(ctx, domain.BookingsFilter{UserID: &userID, Limit: domain.MaxListLimit})
}

// List бронирования по фильтру для персонала.
// StartDate/EndDate отбирают бронирования, пересекающие период.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.PetType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"pet_type": *filter.PetType})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"end_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_date": *filter.EndDate})
	}

	limit := filter.Limit
	if limit <= 0 || limit > domain.MaxListLimit {
		limit = domain.DefaultListLimit
	}
	selectBuilder = selectBuilder.
		OrderBy("start_date DESC", "id DESC").
		Limit(uint64(limit))
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListForReminder подтвержденные бронирования с заездом в date без отправленного напоминания
func (r *Repository) ListForReminder(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"status":        domain.StatusConfirmed,
			"start_date":    domain.TruncateDate(date),
			"reminder_sent": false,
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForReminder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForReminder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateState сохраняет статус, платежное состояние и отметки времени жизненного цикла
func (r *Repository) UpdateState(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("payment_status", booking.PaymentStatus).
		Set("paid_amount", booking.PaidAmount).
		Set("refunded_amount", booking.RefundedAmount).
		Set("actual_check_in", booking.ActualCheckIn).
		Set("actual_check_out", booking.ActualCheckOut).
		Set("cancellation_reason", booking.CancellationReason).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateState", query, args)
}

// MarkReminderSent отмечает отправку напоминания о заезде
func (r *Repository) MarkReminderSent(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "MarkReminderSent", id, "reminder_sent")
}

// MarkReviewRequested отмечает отправку запроса отзыва
func (r *Repository) MarkReviewRequested(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "MarkReviewRequested", id, "review_requested")
}

func (r *Repository) setFlag(ctx context.Context, op string, id int64, column string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set(column, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	return r.execOne(ctx, executor, op, query, args)
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                    domain.Booking
		userID               sql.NullInt64
		pets, customer, adds []byte
		checkIn, checkOut    sql.NullTime
		cancelledAt          sql.NullTime
		specialRequests      sql.NullString
		cancellationReason   sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&userID,
		&b.ServiceType,
		&b.PetType,
		&pets,
		&customer,
		&b.StartDate,
		&b.EndDate,
		&checkIn,
		&checkOut,
		&b.Status,
		&b.PaymentStatus,
		&b.Pricing.DailyRate,
		&b.Pricing.Days,
		&b.Pricing.Subtotal,
		&b.Pricing.AddOnsTotal,
		&b.Pricing.Discount,
		&b.Pricing.DiscountReason,
		&b.Pricing.Tax,
		&b.Pricing.Total,
		&b.PaidAmount,
		&b.RefundedAmount,
		&adds,
		&specialRequests,
		&b.ReminderSent,
		&b.ReviewRequested,
		&cancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(pets, &b.Pets); err != nil {
		return nil, fmt.Errorf("decode pets: %w", err)
	}
	if err := json.Unmarshal(customer, &b.Customer); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	if len(adds) > 0 {
		if err := json.Unmarshal(adds, &b.AddOns); err != nil {
			return nil, fmt.Errorf("decode add-ons: %w", err)
		}
	}

	if userID.Valid {
		b.UserID = &userID.Int64
	}
	if checkIn.Valid {
		b.ActualCheckIn = &checkIn.Time
	}
	if checkOut.Valid {
		b.ActualCheckOut = &checkOut.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	if specialRequests.Valid {
		b.SpecialRequests = &specialRequests.String
	}
	if cancellationReason.Valid {
		b.CancellationReason = &cancellationReason.String
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func nonNilAddOns(a []domain.BookingAddOn) []domain.BookingAddOn {
	if a == nil {
		return []domain.BookingAddOn{}
	}
	return a
}
