package adapter

import "reflect"

// toValues normalizes a set-membership value to []any. A non-slice value is
// wrapped as a one-element set; nil becomes the empty set.
func toValues(v any) []any {
	if v == nil {
		return []any{}
	}
	if vs, ok := v.([]any); ok {
		return vs
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
