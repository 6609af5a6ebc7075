package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is one result record keyed by column or field name.
type Row map[string]any

// Column classes recognised by Normalize.
var (
	moneyColumns = map[string]bool{
		"price":       true,
		"unit_price":  true,
		"total_value": true,
		"total_spent": true,
	}
	countColumns = map[string]bool{
		"quantity":   true,
		"stock":      true,
		"total_sold": true,
	}
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// Normalize converts driver-specific values into a common shape so rows from
// different stores compare equal: identifiers become uuid.UUID, money float64,
// counts int64 and timestamps UTC time.Time. Nested documents are normalized
// recursively.
func Normalize(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = normalizeValue(k, v)
	}

	return out
}

// NormalizeAll normalizes every row in place and returns the slice.
func NormalizeAll(rows []Row) []Row {
	for i, r := range rows {
		rows[i] = Normalize(r)
	}

	return rows
}

func normalizeValue(key string, v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Normalize(val))
	case Row:
		return map[string]any(Normalize(val))
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeValue(key, e)
		}

		return out
	}

	switch {
	case isIDColumn(key):
		return toUUID(v)
	case moneyColumns[key]:
		return toFloat(v)
	case countColumns[key]:
		return toInt(v)
	case strings.HasSuffix(key, "_at"):
		return toTime(v)
	}

	return v
}

func isIDColumn(key string) bool {
	return key == "id" || key == "_id" || strings.HasSuffix(key, "_id")
}

func toUUID(v any) any {
	switch val := v.(type) {
	case uuid.UUID:
		return val
	case [16]byte:
		return uuid.UUID(val)
	case string:
		if id, err := uuid.Parse(val); err == nil {
			return id
		}
	case []byte:
		if len(val) == 16 {
			if id, err := uuid.FromBytes(val); err == nil {
				return id
			}
		}
		if id, err := uuid.ParseBytes(val); err == nil {
			return id
		}
	}

	return v
}

func toFloat(v any) any {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return math.Round(float64(val)*100) / 100
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	case []byte:
		if f, err := strconv.ParseFloat(string(val), 64); err == nil {
			return f
		}
	}

	return v
}

func toInt(v any) any {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case uint32:
		return int64(val)
	case float64:
		return int64(math.Round(val))
	case string:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}

	return v
}

func toTime(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC()
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t.UTC()
			}
		}
	}

	return v
}

// Column extracts a column from each row.
func Column(rows []Row, name string) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[name])
	}

	return out
}

// Keys returns the sorted column names of the row.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
