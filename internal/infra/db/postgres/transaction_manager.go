package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"insuretech-wallet/internal/domain/ports/repository"
)

// Ensure compile-time conformance
var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager implements repository.TransactionManager for Postgres (pgx).
// The tx handle reaches repositories as repository.Tx (a pgx.Tx).
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithTx opens a transaction and passes the handle to fn.
// If fn returns an error the transaction is rolled back and that error returned unchanged;
// otherwise it is committed. Commit failures (serialization, deadlock) come back translated.
func (m *TxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, txOpt)
	if err != nil {
		return translate(err, "")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err // rollback in defer
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(err, "")
	}
	return nil
}

// IsoLevel maps the config spelling of an isolation level to pgx.
// Unknown or empty names fall back to read committed.
func IsoLevel(name string) pgx.TxIsoLevel {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")) {
	case "serializable":
		return pgx.Serializable
	case "repeatable_read":
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}
