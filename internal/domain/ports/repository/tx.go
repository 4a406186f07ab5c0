package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is the opaque transaction handle passed from TransactionManager to repositories.
// Its concrete type is infra-defined (pgx.Tx for Postgres). Repositories accept NoTX
// (nil) and then run on the pool outside any transaction.
type Tx interface{}

var NoTX Tx

// TransactionManager executes fn inside one database transaction.
// fn returning an error rolls the whole unit back; otherwise it commits.
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
//		user, err := users.FindByIDForUpdate(ctx, tx, id)
//		...
//		return err
//	})
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
