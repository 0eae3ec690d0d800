package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"ecommerce-etl/internal/records"
	"ecommerce-etl/internal/warehouse"
)

type MySQLDriver struct {
	db *sql.DB
}

// Connect forces parseTime so DATE columns scan into time.Time.
func (md *MySQLDriver) Connect(dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return errors.Wrap(err, "mysql dsn")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return errors.Wrap(err, "mysql dsn")
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return connectionError("mysql", err)
	}
	md.db = db
	return nil
}

func (md *MySQLDriver) Close() error {
	if md.db == nil {
		return nil
	}
	return md.db.Close()
}

func (md *MySQLDriver) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(warehouse.MySQL) {
		if _, err := md.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "mysql schema")
		}
	}
	return nil
}

func (md *MySQLDriver) ExecuteTx(ctx context.Context, txFunc func(SinkTx) error) (err error) {
	tx, err := md.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = txFunc(&mysqlTx{tx: tx})
	return err
}

type mysqlTx struct {
	tx *sql.Tx
}

// Upsert sends all rows as one multi-row insert. The caller keeps the
// chunk small enough for the server's placeholder limit.
func (t *mysqlTx) Upsert(ctx context.Context, table warehouse.Table, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	args := make([]interface{}, 0, len(rows)*len(table.Columns))
	for _, row := range rows {
		args = append(args, row...)
	}

	res, err := t.tx.ExecContext(ctx, warehouse.InsertStatement(warehouse.MySQL, table, len(rows)), args...)
	if err != nil {
		return 0, errors.Wrapf(err, "upsert %s", table.Name)
	}
	inserted, err := res.RowsAffected()
	return inserted, errors.Wrapf(err, "upsert %s", table.Name)
}

func (t *mysqlTx) FetchTimeKeys(ctx context.Context) ([]records.TimeKey, error) {
	rows, err := t.tx.QueryContext(ctx, warehouse.TimeKeysQuery)
	if err != nil {
		return nil, errors.Wrap(err, "fetch time keys")
	}
	defer rows.Close()

	var keys []records.TimeKey
	for rows.Next() {
		var k records.TimeKey
		if err := rows.Scan(&k.TimeID, &k.Date); err != nil {
			return nil, errors.Wrap(err, "fetch time keys")
		}
		keys = append(keys, k)
	}
	return keys, errors.Wrap(rows.Err(), "fetch time keys")
}
