package dbmetrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/pkg/metrics"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM bookings"))
	assert.Equal(t, "insert", operation("\n  INSERT INTO orders (id) VALUES ($1)"))
	assert.Equal(t, "commit", operation("COMMIT"))
}

func TestDB_ObservesErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	db := Wrap(sqlDB, m, "test")

	mock.ExpectExec("UPDATE availability").WillReturnError(assert.AnError)
	_, err = db.ExecContext(context.Background(), "UPDATE availability SET booked = 1")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("test", "update")))
}

func TestGetExecutor(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, nil, "test")
	assert.Same(t, db, GetExecutor(context.Background(), db))

	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	ctx := WithTx(context.Background(), tx)
	assert.True(t, IsInTransaction(ctx))
	assert.Equal(t, tx, GetExecutor(ctx, db))
}
