package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var txOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pg_transactions_total",
	Help: "Transactions finished by WithTx, by outcome.",
}, []string{"outcome"})

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ Transactor = (*TxManager)(nil)

// TxManager opens read-committed transactions and stores them in ctx.
type TxManager struct {
	db  *DB
	log *zap.Logger
}

func NewTransactor(db *DB, log *zap.Logger) *TxManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TxManager{db: db, log: log.With(zap.String("component", "postgres.tx"))}
}

// WithTx runs fn inside one transaction. A nested call joins the outer
// transaction and leaves commit to it. fn's error is returned unwrapped so
// callers can match sentinels with errors.Is.
func (t *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		// rollback must run even when ctx is already canceled
		rctx := context.WithoutCancel(ctx)
		if p := recover(); p != nil {
			_ = tx.Rollback(rctx)
			txOutcomes.WithLabelValues("panic").Inc()
			panic(p)
		}
		if err != nil {
			if rerr := tx.Rollback(rctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
				t.log.Error("rollback failed", zap.Error(rerr))
			}
			txOutcomes.WithLabelValues("rollback").Inc()
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			t.log.Error("commit failed", zap.Error(cerr))
			txOutcomes.WithLabelValues("commit_error").Inc()
			err = fmt.Errorf("commit tx: %w", cerr)
			return
		}
		txOutcomes.WithLabelValues("commit").Inc()
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

type txKey struct{}

func txFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok && tx != nil
}

type execQueryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func (db *DB) execQueryer(ctx context.Context) execQueryer {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db.Pool
}
