package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToInt64 coerces an aggregate cell to an integer. Relational drivers
// disagree on the wire type of COUNT results (Postgres reports bigint counts
// as text over some paths), so everything funnels through decimal parsing.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return parseInt64(string(n))
	case string:
		return parseInt64(n)
	default:
		return parseInt64(fmt.Sprint(v))
	}
}

func parseInt64(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("cannot coerce %q to integer: %w", s, err)
	}
	return d.IntPart(), nil
}

func IntPtr(n int) *int {
	return &n
}
