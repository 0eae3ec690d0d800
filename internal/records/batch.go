package records

// Batch is one collection's worth of rows together with every column name
// that appeared in at least one source document.
type Batch[T any] struct {
	Columns map[string]struct{}
	Rows    []T
}

func NewBatch[T any](rows []T, columns ...string) *Batch[T] {
	b := &Batch[T]{Columns: make(map[string]struct{}, len(columns)), Rows: rows}
	for _, c := range columns {
		b.Columns[c] = struct{}{}
	}
	return b
}

func (b *Batch[T]) Len() int {
	return len(b.Rows)
}

func (b *Batch[T]) HasColumn(name string) bool {
	_, ok := b.Columns[name]
	return ok
}

func (b *Batch[T]) AddColumn(name string) {
	if b.Columns == nil {
		b.Columns = make(map[string]struct{})
	}
	b.Columns[name] = struct{}{}
}

// WithRows returns a batch sharing b's columns.
func (b *Batch[T]) WithRows(rows []T) *Batch[T] {
	return &Batch[T]{Columns: b.Columns, Rows: rows}
}
