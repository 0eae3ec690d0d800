package database

import (
	"context"

	"github.com/pkg/errors"

	"ecommerce-etl/internal/records"
	"ecommerce-etl/internal/warehouse"
)

// ErrConnection marks a source or sink that could not be reached.
var ErrConnection = errors.New("store unreachable")

// SinkTx is what the load stage can do inside its one transaction.
type SinkTx interface {
	// Upsert inserts rows, skipping any whose conflict key already exists,
	// and returns how many rows were actually inserted.
	Upsert(ctx context.Context, table warehouse.Table, rows [][]interface{}) (int64, error)
	FetchTimeKeys(ctx context.Context) ([]records.TimeKey, error)
}

type Sink interface {
	Connect(dsn string) error
	Close() error
	// EnsureSchema creates the star schema tables when absent and
	// (re)creates the reporting views.
	EnsureSchema(ctx context.Context) error
	// ExecuteTx commits when txFunc returns nil and rolls back otherwise,
	// including on panic.
	ExecuteTx(ctx context.Context, txFunc func(SinkTx) error) error
}

func NewSink(dialect warehouse.Dialect) (Sink, error) {
	switch dialect {
	case warehouse.Postgres:
		return &PostgresDriver{}, nil
	case warehouse.MySQL:
		return &MySQLDriver{}, nil
	}
	return nil, errors.Errorf("unsupported sink driver %q", dialect)
}

func connectionError(store string, err error) error {
	return errors.Wrapf(ErrConnection, "%s: %v", store, err)
}

func schemaStatements(d warehouse.Dialect) []string {
	stmts := warehouse.Schema(d)
	for _, v := range warehouse.Views {
		stmts = append(stmts, v.Statement())
	}
	return stmts
}
