package transform

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"ecommerce-etl/internal/records"
)

var isoLayouts = []string{
	"2006-1-2 15:04:05Z07:00",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
}

// ParseTransactionDate turns any of the encodings found in carts into a
// calendar date. Integers are Unix epoch seconds. Strings holding '-' are
// ISO dates, strings holding '/' are DD/MM/YYYY, anything else goes to
// dateparse. ok is false when nothing matched.
func ParseTransactionDate(v bson.RawValue) (date time.Time, ok bool) {
	var t time.Time
	switch v.Type {
	case bsontype.Int32:
		t, ok = time.Unix(int64(v.Int32()), 0).UTC(), true
	case bsontype.Int64:
		t, ok = time.Unix(v.Int64(), 0).UTC(), true
	case bsontype.Double:
		f := v.Double()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			t, ok = time.Unix(int64(f), 0).UTC(), true
		} else {
			t, ok = parseDateString(strconv.FormatFloat(f, 'f', -1, 64))
		}
	case bsontype.DateTime:
		t, ok = v.Time().UTC(), true
	case bsontype.String:
		t, ok = parseDateString(v.StringValue())
	}
	if !ok {
		return time.Time{}, false
	}
	return records.CalendarDate(t), true
}

func parseDateString(s string) (time.Time, bool) {
	iso := strings.ReplaceAll(s, "T", " ")
	iso = strings.TrimSpace(strings.ReplaceAll(iso, "Z", ""))

	switch {
	case strings.Contains(iso, "-"):
		return parseLayouts(iso, isoLayouts)
	case strings.Contains(iso, "/"):
		parts := strings.Split(iso, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		return parseLayouts(parts[2]+"-"+parts[1]+"-"+parts[0], isoLayouts)
	default:
		// The raw string: stripping 'T' and 'Z' would mangle month, weekday
		// and zone names.
		t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
