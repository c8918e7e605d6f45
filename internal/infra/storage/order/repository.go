package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

var orderColumns = []string{
	"id",
	"order_id",
	"booking_id",
	"user_id",
	"provider_session_id",
	"provider_payment_intent_id",
	"provider_customer_id",
	"checkout_url",
	"subtotal",
	"discount",
	"tax",
	"total",
	"charge",
	"paid",
	"refunded",
	"currency",
	"status",
	"expires_at",
	"paid_at",
	"failure_reason",
	"created_at",
	"updated_at",
}

var refundColumns = []string{
	"id",
	"refund_id",
	"order_id",
	"provider_refund_id",
	"amount",
	"reason",
	"status",
	"created_by",
	"created_at",
}

var awaitingStatuses = []domain.OrderStatus{domain.OrderPending, domain.OrderProcessing}

var settledStatuses = []domain.OrderStatus{domain.OrderPaid, domain.OrderPartiallyRefunded, domain.OrderRefunded}

// Repository заказы (платежные сессии) и история возвратов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заказ со снимком сумм бронирования
func (r *Repository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	a := o.Amounts
	query, args, err := psqlbuilder.Insert("orders").
		Columns(
			"order_id",
			"booking_id",
			"user_id",
			"subtotal",
			"discount",
			"tax",
			"total",
			"charge",
			"paid",
			"refunded",
			"currency",
			"status",
			"expires_at",
		).
		Values(
			o.OrderID,
			o.BookingID,
			o.UserID,
			a.Subtotal,
			a.Discount,
			a.Tax,
			a.Total,
			a.Charge,
			a.Paid,
			a.Refunded,
			o.Currency,
			o.Status,
			o.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time
	return o, nil
}

// AttachSession сохраняет идентификатор и URL платежной сессии
func (r *Repository) AttachSession(ctx context.Context, id int64, sessionID, checkoutURL string, status domain.OrderStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("provider_session_id", sessionID).
		Set("checkout_url", checkoutURL).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachSession - build update query: %v", ErrBuildQuery, err)
	}

	return execOne(ctx, executor, "AttachSession", query, args)
}

// UpdateStatus сохраняет статус, суммы и данные провайдера
func (r *Repository) UpdateStatus(ctx context.Context, o *domain.Order) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("status", o.Status).
		Set("paid", o.Amounts.Paid).
		Set("refunded", o.Amounts.Refunded).
		Set("paid_at", o.PaidAt).
		Set("failure_reason", o.FailureReason).
		Set("provider_payment_intent_id", o.ProviderPaymentIntentID).
		Set("provider_customer_id", o.ProviderCustomerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return execOne(ctx, executor, "UpdateStatus", query, args)
}

// GetByOrderID заказ по публичному идентификатору вместе с возвратами.
// Внутри транзакции строка заказа блокируется.
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.getOne(ctx, "GetByOrderID", squirrel.Eq{"order_id": orderID})
}

// GetBySessionID заказ по идентификатору платежной сессии
func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.getOne(ctx, "GetBySessionID", squirrel.Eq{"provider_session_id": sessionID})
}

// GetSettledByBookingID последний оплаченный заказ бронирования
func (r *Repository) GetSettledByBookingID(ctx context.Context, bookingID int64) (*domain.Order, error) {
	return r.getOne(ctx, "GetSettledByBookingID", squirrel.Eq{
		"booking_id": bookingID,
		"status":     settledStatuses,
	})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("id DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	o, err := scanOrder(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan order: %w", ErrScanRow, op, err)
	}

	refunds, err := r.listRefunds(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Refunds = refunds[o.ID]

	return o, nil
}

// ListByUser история платежей пользователя
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(domain.MaxListLimit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	orders, err := r.queryOrders(ctx, executor, "ListByUser", query, args)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	refunds, err := r.listRefunds(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Refunds = refunds[o.ID]
	}

	return orders, nil
}

// ListExpired неоплаченные заказы с истекшим сроком сессии
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"status": awaitingStatuses}).
		Where(squirrel.Lt{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryOrders(ctx, executor, "ListExpired", query, args)
}

// CancelAwaitingByBooking отменяет неоплаченные заказы бронирования
func (r *Repository) CancelAwaitingByBooking(ctx context.Context, bookingID int64, reason string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("status", domain.OrderCancelled).
		Set("failure_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "status": awaitingStatuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelAwaitingByBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelAwaitingByBooking - execute update: %w", ErrExecQuery, err)
	}
	return result.RowsAffected()
}

// AddRefund добавляет запись о возврате. История возвратов только дополняется.
func (r *Repository) AddRefund(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("order_refunds").
		Columns(
			"refund_id",
			"order_id",
			"provider_refund_id",
			"amount",
			"reason",
			"status",
			"created_by",
		).
		Values(
			refund.RefundID,
			refund.OrderID,
			refund.ProviderRefundID,
			refund.Amount,
			refund.Reason,
			refund.Status,
			refund.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddRefund - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&refund.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: AddRefund - execute insert: %w", ErrExecQuery, err)
	}
	refund.CreatedAt = createdAt.Time
	return refund, nil
}

func (r *Repository) listRefunds(ctx context.Context, orderIDs []int64) (map[int64][]domain.Refund, error) {
	res := make(map[int64][]domain.Refund, len(orderIDs))
	if len(orderIDs) == 0 {
		return res, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(refundColumns...).
		From("order_refunds").
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listRefunds - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listRefunds - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ref              domain.Refund
			providerRefundID sql.NullString
			createdBy        sql.NullInt64
			createdAt        sql.NullTime
		)
		err := rows.Scan(
			&ref.ID,
			&ref.RefundID,
			&ref.OrderID,
			&providerRefundID,
			&ref.Amount,
			&ref.Reason,
			&ref.Status,
			&createdBy,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: listRefunds - scan refund: %v", ErrScanRow, err)
		}
		if providerRefundID.Valid {
			ref.ProviderRefundID = &providerRefundID.String
		}
		if createdBy.Valid {
			ref.CreatedBy = &createdBy.Int64
		}
		ref.CreatedAt = createdAt.Time
		res[ref.OrderID] = append(res[ref.OrderID], ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listRefunds - rows error: %v", ErrScanRow, err)
	}
	return res, nil
}

func (r *Repository) queryOrders(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Order, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan order: %v", ErrScanRow, op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o                                    domain.Order
		userID                               sql.NullInt64
		sessionID, intentID, customerID, url sql.NullString
		paidAt                               sql.NullTime
		failureReason                        sql.NullString
		createdAt, updatedAt                 sql.NullTime
	)

	err := row.Scan(
		&o.ID,
		&o.OrderID,
		&o.BookingID,
		&userID,
		&sessionID,
		&intentID,
		&customerID,
		&url,
		&o.Amounts.Subtotal,
		&o.Amounts.Discount,
		&o.Amounts.Tax,
		&o.Amounts.Total,
		&o.Amounts.Charge,
		&o.Amounts.Paid,
		&o.Amounts.Refunded,
		&o.Currency,
		&o.Status,
		&o.ExpiresAt,
		&paidAt,
		&failureReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		o.UserID = &userID.Int64
	}
	o.ProviderSessionID = nullString(sessionID)
	o.ProviderPaymentIntentID = nullString(intentID)
	o.ProviderCustomerID = nullString(customerID)
	o.CheckoutURL = nullString(url)
	o.FailureReason = nullString(failureReason)
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
