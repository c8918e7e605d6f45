package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
)

var (
	// ErrBegin ошибка открытия транзакции
	ErrBegin = errors.New("txmanager: failed to begin transaction")

	// ErrCommit ошибка фиксации транзакции
	ErrCommit = errors.New("txmanager: failed to commit transaction")
)

// pq код serialization_failure
const serializationFailure = "40001"

const defaultSerializableRetries = 3

// Manager управляет транзакциями и передает их через context.
// Вложенный вызов присоединяется к уже открытой транзакции.
type Manager struct {
	db      dbmetrics.TxBeginner
	retries int
}

func NewTransactionManager(db dbmetrics.TxBeginner) *Manager {
	return &Manager{db: db, retries: defaultSerializableRetries}
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE.
// При конфликте сериализации транзакция повторяется до retries раз.
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= m.retries; attempt++ {
		err = m.run(ctx, opts, fn)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBegin, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	hooks := &commitHooks{}
	txCtx := context.WithValue(dbmetrics.WithTx(ctx, tx), hooksKey{}, hooks)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}

	for _, hook := range hooks.fns {
		hook(ctx)
	}
	return nil
}

type hooksKey struct{}

type commitHooks struct {
	fns []func(ctx context.Context)
}

// AfterCommit откладывает fn до фиксации внешней транзакции.
// При откате fn не вызывается, вне транзакции вызывается сразу.
func (m *Manager) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(hooksKey{}).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.fns = append(hooks.fns, fn)
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == serializationFailure
	}
	return false
}
