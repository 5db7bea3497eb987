package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// TxFunc runs inside an open transaction.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// Transactor opens a transaction, runs fn and commits, or rolls back when fn fails.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type txManager struct {
	db          PgxIface
	lockTimeout time.Duration
}

// NewTransactor bounds every row-lock wait inside its transactions by lockTimeout.
// A zero lockTimeout leaves the server default in place.
func NewTransactor(db PgxIface, lockTimeout time.Duration) Transactor {
	return &txManager{db: db, lockTimeout: lockTimeout}
}

func (m *txManager) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if m.lockTimeout > 0 {
		// SET LOCAL does not accept bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return rollback(ctx, tx, fmt.Errorf("set lock timeout: %w", err))
		}
	}

	if err := fn(ctx, tx); err != nil {
		return rollback(ctx, tx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	// the request context may already be done, rollback must still reach the server
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := tx.Rollback(rbCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Join(cause, fmt.Errorf("rollback: %w", err))
	}
	return cause
}
