package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"ecommerce-etl/internal/records"
	"ecommerce-etl/internal/warehouse"
)

type PostgresDriver struct {
	conn *pgx.Conn
}

func (pd *PostgresDriver) Connect(dsn string) error {
	conn, err := pgx.Connect(context.Background(), dsn)
	if err != nil {
		return connectionError("postgres", err)
	}
	pd.conn = conn
	return nil
}

func (pd *PostgresDriver) Close() error {
	if pd.conn == nil {
		return nil
	}
	return pd.conn.Close(context.Background())
}

func (pd *PostgresDriver) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(warehouse.Postgres) {
		if _, err := pd.conn.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "postgres schema")
		}
	}
	return nil
}

func (pd *PostgresDriver) ExecuteTx(ctx context.Context, txFunc func(SinkTx) error) (err error) {
	tx, err := pd.conn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = txFunc(&postgresTx{tx: tx})
	return err
}

type postgresTx struct {
	tx pgx.Tx
}

// Upsert queues one single-row insert per row in a pgx batch so each
// row's skip-or-insert outcome shows up in its own command tag.
func (t *postgresTx) Upsert(ctx context.Context, table warehouse.Table, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt := warehouse.InsertStatement(warehouse.Postgres, table, 1)
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(stmt, row...)
	}

	br := t.tx.SendBatch(ctx, batch)
	var inserted int64
	for range rows {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return inserted, errors.Wrapf(err, "upsert %s", table.Name)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, errors.Wrapf(br.Close(), "upsert %s", table.Name)
}

func (t *postgresTx) FetchTimeKeys(ctx context.Context) ([]records.TimeKey, error) {
	rows, err := t.tx.Query(ctx, warehouse.TimeKeysQuery)
	if err != nil {
		return nil, errors.Wrap(err, "fetch time keys")
	}
	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (records.TimeKey, error) {
		var k records.TimeKey
		err := row.Scan(&k.TimeID, &k.Date)
		return k, err
	})
	return keys, errors.Wrap(err, "fetch time keys")
}
