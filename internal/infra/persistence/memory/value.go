// Package memory provides in-process wide-column and document engines with the
// same access rules as their server counterparts, for local runs and tests.
package memory

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Driver is the name reported by the memory connectors.
const Driver = "memory"

// compare orders two scalar values. Values of different kinds order by kind name
// so sorting never panics; nil sorts first.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch x := a.(type) {
	case uuid.UUID:
		if y, ok := b.(uuid.UUID); ok {
			return bytes.Compare(x[:], y[:])
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}

	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmp.Compare(x, y)
		}
	}

	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}

// deepCopy copies nested maps and slices so stored data never aliases caller data.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = deepCopy(e)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopy(e)
		}

		return out
	}

	return v
}
