// Package transform holds the cleaning pipelines for users, products and
// carts. A pipeline is a fixed list of steps; each step either rewrites
// columns or drops rows, and never brings back a row an earlier step dropped.
package transform

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"ecommerce-etl/internal/records"
)

var ErrMissingColumn = errors.New("required column missing")

// Observer receives the outcome of every step that dropped rows.
type Observer interface {
	Dropped(entity, step, reason string, count int)
}

type NopObserver struct{}

func (NopObserver) Dropped(string, string, string, int) {}

// Verdict is the outcome for one row: kept, or dropped with a reason.
type Verdict struct {
	Reason string
}

var Keep = Verdict{}

func Drop(reason string) Verdict {
	return Verdict{Reason: reason}
}

func (v Verdict) Kept() bool {
	return v.Reason == ""
}

// Step returns the surviving rows and one verdict per dropped row. Apply
// must not modify the input slice.
type Step[T any] struct {
	Name  string
	Apply func(rows []T) ([]T, []Verdict)
}

// Each builds a row-wise step. fn works on a copy of the row and may
// rewrite it before returning its verdict.
func Each[T any](name string, fn func(row *T) Verdict) Step[T] {
	return Step[T]{
		Name: name,
		Apply: func(rows []T) ([]T, []Verdict) {
			kept := make([]T, 0, len(rows))
			var dropped []Verdict
			for _, row := range rows {
				if v := fn(&row); !v.Kept() {
					dropped = append(dropped, v)
					continue
				}
				kept = append(kept, row)
			}
			return kept, dropped
		},
	}
}

func Rewrite[T any](name string, fn func(row *T)) Step[T] {
	return Each(name, func(row *T) Verdict {
		fn(row)
		return Keep
	})
}

// DropDuplicates keeps the first row for every key.
func DropDuplicates[T any, K comparable](name string, key func(row *T) K) Step[T] {
	return Step[T]{
		Name: name,
		Apply: func(rows []T) ([]T, []Verdict) {
			seen := make(map[K]struct{}, len(rows))
			kept := make([]T, 0, len(rows))
			var dropped []Verdict
			for i := range rows {
				k := key(&rows[i])
				if _, ok := seen[k]; ok {
					dropped = append(dropped, Drop("duplicate"))
					continue
				}
				seen[k] = struct{}{}
				kept = append(kept, rows[i])
			}
			return kept, dropped
		},
	}
}

type Pipeline[T any] struct {
	Entity   string
	Required []string
	Steps    []Step[T]
}

// Run applies every step in order. The only error is a required column
// that no document in a non-empty batch carries.
func (p Pipeline[T]) Run(batch *records.Batch[T], obs Observer) ([]T, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if batch.Len() > 0 {
		for _, col := range p.Required {
			if !batch.HasColumn(col) {
				return nil, errors.Wrapf(ErrMissingColumn, "%s.%s", p.Entity, col)
			}
		}
	}

	rows := batch.Rows
	for _, step := range p.Steps {
		kept, dropped := step.Apply(rows)
		report(obs, p.Entity, step.Name, dropped)
		rows = kept
	}
	return rows, nil
}

func report(obs Observer, entity, step string, dropped []Verdict) {
	if len(dropped) == 0 {
		return
	}
	counts := make(map[string]int)
	for _, v := range dropped {
		counts[v.Reason]++
	}
	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		obs.Dropped(entity, step, r, counts[r])
	}
}

// nullable is a comparable stand-in for an optional string in dedupe keys.
// Two missing values compare equal.
type nullable struct {
	value string
	valid bool
}

func nullableOf(s *string) nullable {
	if s == nil {
		return nullable{}
	}
	return nullable{value: *s, valid: true}
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// atLeast reports whether v is present, a number and not below lo. NaN
// fails every bound.
func atLeast(v *float64, lo float64) bool {
	return v != nil && !math.IsNaN(*v) && *v >= lo
}

func within(v *float64, lo, hi float64) bool {
	return atLeast(v, lo) && *v <= hi
}
