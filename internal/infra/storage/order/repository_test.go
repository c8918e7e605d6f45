package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *Repository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, NewRepository(db)
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows(orderColumns)
}

func addOrder(rows *sqlmock.Rows, id int64, status domain.OrderStatus, paid float64) *sqlmock.Rows {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "ord_1", int64(10), int64(7), "cs_1", nil, nil, "https://pay.example/cs_1",
		150.0, 0.0, 0.0, 150.0, 150.0, paid, 0.0, "usd", string(status),
		now.Add(30*time.Minute), nil, nil, now, now,
	)
}

func TestRepository_GetBySessionID_LoadsRefunds(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM orders WHERE provider_session_id = \$1 ORDER BY id DESC LIMIT 1`).
		WithArgs("cs_1").
		WillReturnRows(addOrder(orderRows(), 3, domain.OrderPartiallyRefunded, 150))
	mock.ExpectQuery(`SELECT .* FROM order_refunds WHERE order_id IN \(\$1\) ORDER BY id ASC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(refundColumns).
			AddRow(int64(1), "rf_1", int64(3), "re_1", 50.0, "requested_by_customer", "succeeded", nil, time.Now()))

	o, err := repo.GetBySessionID(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderPartiallyRefunded, o.Status)
	require.NotNil(t, o.CheckoutURL)
	assert.Nil(t, o.PaidAt)
	require.Len(t, o.Refunds, 1)
	assert.Equal(t, 50.0, o.Refunds[0].Amount)
	assert.Equal(t, 50.0, o.RefundsTotal())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByOrderID_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`FROM orders WHERE order_id = \$1`).
		WillReturnRows(orderRows())

	_, err := repo.GetByOrderID(context.Background(), "ord_missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetSettledByBookingID(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`FROM orders WHERE booking_id = \$1 AND status IN \(\$2,\$3,\$4\)`).
		WithArgs(int64(10), domain.OrderPaid, domain.OrderPartiallyRefunded, domain.OrderRefunded).
		WillReturnRows(addOrder(orderRows(), 3, domain.OrderPaid, 150))
	mock.ExpectQuery(`FROM order_refunds`).
		WillReturnRows(sqlmock.NewRows(refundColumns))

	o, err := repo.GetSettledByBookingID(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, o.Refunds)
	assert.Equal(t, 150.0, o.RefundableAmount())
}

func TestRepository_ListExpired(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Date(2026, 6, 1, 13, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM orders WHERE status IN \(\$1,\$2\) AND expires_at < \$3 ORDER BY expires_at ASC LIMIT 100`).
		WithArgs(domain.OrderPending, domain.OrderProcessing, now).
		WillReturnRows(addOrder(addOrder(orderRows(), 1, domain.OrderPending, 0), 2, domain.OrderProcessing, 0))

	orders, err := repo.ListExpired(context.Background(), now, 100)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].IsExpired(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AddRefund(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO order_refunds .* RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), now))

	ref, err := repo.AddRefund(context.Background(), &domain.Refund{RefundID: "rf_2", OrderID: 3, Amount: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(8), ref.ID)
	assert.Equal(t, now, ref.CreatedAt)
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), &domain.Order{ID: 99, Status: domain.OrderPaid})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRepository_CancelAwaitingByBooking(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`UPDATE orders SET status = \$1, failure_reason = \$2, updated_at = NOW\(\) WHERE booking_id = \$3 AND status IN \(\$4,\$5\)`).
		WithArgs(domain.OrderCancelled, "booking cancelled", int64(10), domain.OrderPending, domain.OrderProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.CancelAwaitingByBooking(context.Background(), 10, "booking cancelled")

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
