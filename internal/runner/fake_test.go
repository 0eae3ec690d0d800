package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"ecommerce-etl/internal/database"
	"ecommerce-etl/internal/records"
	"ecommerce-etl/internal/warehouse"
)

type fakeSource struct {
	collections map[string][]bson.Raw
	err         error
}

func (s *fakeSource) FetchCollection(_ context.Context, name string) ([]bson.Raw, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.collections[name], nil
}

type fakeRow struct {
	id     int64
	values []interface{}
}

type fakeTable struct {
	keys map[string]struct{}
	rows []fakeRow
}

// fakeState is everything the fake sink has stored. Transactions work on a
// copy and swap it in on commit.
type fakeState struct {
	tables map[string]*fakeTable
	nextID int64
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{tables: make(map[string]*fakeTable, len(s.tables)), nextID: s.nextID}
	for name, t := range s.tables {
		ct := &fakeTable{keys: make(map[string]struct{}, len(t.keys)), rows: append([]fakeRow(nil), t.rows...)}
		for k := range t.keys {
			ct.keys[k] = struct{}{}
		}
		c.tables[name] = ct
	}
	return c
}

func (s *fakeState) table(name string) *fakeTable {
	t, ok := s.tables[name]
	if !ok {
		t = &fakeTable{keys: make(map[string]struct{})}
		s.tables[name] = t
	}
	return t
}

type fakeSink struct {
	committed   *fakeState
	failOn      string
	schemaCalls int
	upserts     int
}

func newFakeSink() *fakeSink {
	return &fakeSink{committed: &fakeState{tables: make(map[string]*fakeTable)}}
}

func (s *fakeSink) Connect(string) error { return nil }

func (s *fakeSink) Close() error { return nil }

func (s *fakeSink) EnsureSchema(context.Context) error {
	s.schemaCalls++
	return nil
}

func (s *fakeSink) ExecuteTx(_ context.Context, txFunc func(database.SinkTx) error) error {
	work := s.committed.clone()
	if err := txFunc(&fakeTx{sink: s, state: work}); err != nil {
		return err
	}
	s.committed = work
	return nil
}

func (s *fakeSink) rows(table string) [][]interface{} {
	t, ok := s.committed.tables[table]
	if !ok {
		return nil
	}
	var out [][]interface{}
	for _, r := range t.rows {
		out = append(out, r.values)
	}
	return out
}

type fakeTx struct {
	sink  *fakeSink
	state *fakeState
}

func (tx *fakeTx) Upsert(_ context.Context, table warehouse.Table, rows [][]interface{}) (int64, error) {
	tx.sink.upserts++
	if table.Name == tx.sink.failOn {
		return 0, errors.Errorf("insert into %s: connection reset", table.Name)
	}
	t := tx.state.table(table.Name)
	var inserted int64
	for _, row := range rows {
		if table.Name == warehouse.FactSales.Name {
			if err := tx.checkProduct(row[1]); err != nil {
				return inserted, err
			}
		}
		key := conflictKey(table, row)
		if _, ok := t.keys[key]; ok {
			continue
		}
		tx.state.nextID++
		t.keys[key] = struct{}{}
		t.rows = append(t.rows, fakeRow{id: tx.state.nextID, values: row})
		inserted++
	}
	return inserted, nil
}

// checkProduct mirrors the fact_sales foreign key on dim_products.
func (tx *fakeTx) checkProduct(productID interface{}) error {
	products := tx.state.table(warehouse.DimProducts.Name)
	if _, ok := products.keys[fmt.Sprintf("%v|", productID)]; !ok {
		return errors.Errorf("fact_sales: product_id %v violates foreign key on dim_products", productID)
	}
	return nil
}

func (tx *fakeTx) FetchTimeKeys(context.Context) ([]records.TimeKey, error) {
	var keys []records.TimeKey
	for _, r := range tx.state.table(warehouse.DimTime.Name).rows {
		keys = append(keys, records.TimeKey{TimeID: r.id, Date: r.values[0].(time.Time)})
	}
	return keys, nil
}

func conflictKey(table warehouse.Table, row []interface{}) string {
	var key string
	for _, k := range table.ConflictKey {
		for i, c := range table.Columns {
			if c == k {
				key += fmt.Sprintf("%v|", row[i])
			}
		}
	}
	return key
}
