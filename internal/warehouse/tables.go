package warehouse

import (
	"strconv"
	"strings"
)

// Table names a target table, the columns the loader writes and the key
// whose duplicates are skipped.
type Table struct {
	Name        string
	Columns     []string
	ConflictKey []string
}

var (
	DimUsers = Table{
		Name:        "dim_users",
		Columns:     []string{"user_id", "first_name", "last_name", "age", "gender", "city", "state", "country"},
		ConflictKey: []string{"user_id"},
	}
	DimProducts = Table{
		Name:        "dim_products",
		Columns:     []string{"product_id", "title", "price", "rating", "brand"},
		ConflictKey: []string{"product_id"},
	}
	DimTime = Table{
		Name:        "dim_time",
		Columns:     []string{"date", "year", "month", "day"},
		ConflictKey: []string{"date"},
	}
	FactSales = Table{
		Name:        "fact_sales",
		Columns:     []string{"user_id", "product_id", "time_id", "unit_price", "quantity"},
		ConflictKey: []string{"user_id", "product_id", "time_id"},
	}
)

const TimeKeysQuery = "SELECT time_id, date FROM dim_time"

// InsertStatement builds an insert of rows rows into t that skips rows
// whose conflict key already exists. Existing rows are never updated.
func InsertStatement(d Dialect, t Table, rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(t.Name)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(t.Columns, ", "))
	sb.WriteString(") VALUES ")

	n := 0
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range t.Columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			n++
			sb.WriteString(placeholder(d, n))
		}
		sb.WriteByte(')')
	}

	switch d {
	case MySQL:
		// Assigning the key to itself turns a duplicate into a no-op that
		// reports zero affected rows.
		k := t.ConflictKey[0]
		sb.WriteString(" ON DUPLICATE KEY UPDATE " + k + " = " + k)
	default:
		sb.WriteString(" ON CONFLICT (" + strings.Join(t.ConflictKey, ", ") + ") DO NOTHING")
	}
	return sb.String()
}

func placeholder(d Dialect, n int) string {
	if d == MySQL {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}
