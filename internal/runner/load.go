package runner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ecommerce-etl/internal/database"
	"ecommerce-etl/internal/projector"
	"ecommerce-etl/internal/warehouse"
)

type valuer interface {
	Values() []interface{}
}

func rowsOf[T valuer](items []T) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Values())
	}
	return rows
}

// load bootstraps the schema, then writes dimensions, reads back the time
// keys and writes facts inside one transaction.
func (r *Runner) load(ctx context.Context, data *cleaned, obs Observer, report *Report, log *logrus.Entry) error {
	if err := r.sink.EnsureSchema(ctx); err != nil {
		return &LoadError{Err: err}
	}

	err := r.sink.ExecuteTx(ctx, func(tx database.SinkTx) error {
		l := &loader{tx: tx, batchSize: r.opts.BatchSize, report: report, log: log}

		if err := l.upsert(ctx, warehouse.DimUsers, rowsOf(projector.DimUsers(data.users))); err != nil {
			return err
		}
		if err := l.upsert(ctx, warehouse.DimProducts, rowsOf(projector.DimProducts(data.products))); err != nil {
			return err
		}
		if err := l.upsert(ctx, warehouse.DimTime, rowsOf(projector.DimTimes(data.carts))); err != nil {
			return err
		}

		opStartTime := time.Now()
		keys, err := tx.FetchTimeKeys(ctx)
		if err != nil {
			return err
		}
		report.record(time.Since(opStartTime))
		log.WithField("count", len(keys)).Info("time keys fetched")

		facts := projector.Facts(data.carts, data.users, data.products, keys, obs)
		resolved, skipped := projector.Resolved(facts)
		report.FactCandidates = len(facts)
		report.FactsSkipped = skipped
		if skipped > 0 {
			log.WithField("count", skipped).Warn("fact rows without user, product or time key left out")
		}
		return l.upsert(ctx, warehouse.FactSales, rowsOf(resolved))
	})
	if err != nil {
		return &LoadError{Err: err}
	}
	return nil
}

type loader struct {
	tx        database.SinkTx
	batchSize int
	report    *Report
	log       *logrus.Entry
}

// upsert writes rows in chunks of batchSize and records each chunk's
// latency.
func (l *loader) upsert(ctx context.Context, table warehouse.Table, rows [][]interface{}) error {
	var inserted int64
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))

		opStartTime := time.Now()
		n, err := l.tx.Upsert(ctx, table, rows[start:end])
		if err != nil {
			return err
		}
		l.report.record(time.Since(opStartTime))
		inserted += n
	}
	l.report.Inserted[table.Name] = inserted

	l.log.WithFields(logrus.Fields{
		"table":    table.Name,
		"rows":     len(rows),
		"inserted": inserted,
	}).Info("table loaded")
	return nil
}
