package go_polyquery

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/PolyQuery/go-polyquery/query"
	"github.com/PolyQuery/go-polyquery/service"
)

// Builder is the fluent query surface. Every configuration method mutates the
// owned Spec and returns the same Builder, so calls chain; terminal methods
// read the Spec without resetting it, so one Builder can execute the same
// configuration many times.
//
// A Builder is not safe for concurrent mutation; independent Builders never
// share state and may run concurrently.
type Builder struct {
	spec   query.Spec
	runner service.Runner
}

func newBuilder(runner service.Runner) *Builder {
	return &Builder{runner: runner}
}

// From sets the table or collection name. Last write wins; execution fails
// naturally on the backend if no target was ever set.
func (b *Builder) From(name string) *Builder {
	b.spec.SetTarget(name)
	return b
}

// Where appends equality or comparison conditions. Three shapes, selected by
// arity, never by value inspection:
//
//	Where(map[string]any{"a": 1, "b": 2})  // one condition per key, equality
//	Where("a", 1)                          // field = value
//	Where("age", ">", 18)                  // field, operator, value
//
// The map shape appends keys in sorted order so repeated runs build the same
// condition sequence. Operators are stored exactly as given; each adapter
// translates them. A lone argument that is neither a map nor a query.Condition
// carries no field/value pair and is ignored; the chain stays usable.
func (b *Builder) Where(cond any, args ...any) *Builder {
	switch len(args) {
	case 0:
		if m, ok := cond.(map[string]any); ok {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				b.spec.AddCondition(k, query.OpEq, m[k])
			}
		} else if c, ok := cond.(query.Condition); ok {
			b.spec.AddCondition(c.Field, c.Operator, c.Value)
		}
	case 1:
		b.spec.AddCondition(fmt.Sprint(cond), query.OpEq, args[0])
	default:
		op, _ := args[0].(string)
		b.spec.AddCondition(fmt.Sprint(cond), op, args[1])
	}
	return b
}

// WhereIn appends a set-membership condition. Slice arguments are flattened,
// so WhereIn("role", roles) and WhereIn("role", "a", "b") both work. An empty
// set is legal and matches nothing on either backend.
func (b *Builder) WhereIn(field string, values ...any) *Builder {
	b.spec.AddCondition(field, query.OpIn, flattenValues(values))
	return b
}

func (b *Builder) WhereNotIn(field string, values ...any) *Builder {
	b.spec.AddCondition(field, query.OpNotIn, flattenValues(values))
	return b
}

// WhereLike appends a pattern condition. The value is passed through with SQL
// wildcard syntax; the document adapter converts % to a regex on its side.
func (b *Builder) WhereLike(field string, value any) *Builder {
	b.spec.AddCondition(field, query.OpLike, value)
	return b
}

// Select replaces the projection with the flattened arguments. Both
// Select("a", "b") and Select([]string{"a", "b"}) are accepted.
func (b *Builder) Select(fields ...any) *Builder {
	flat := make([]string, 0, len(fields))
	for _, f := range fields {
		switch v := f.(type) {
		case string:
			flat = append(flat, v)
		case []string:
			flat = append(flat, v...)
		case []any:
			for _, e := range v {
				flat = append(flat, fmt.Sprint(e))
			}
		}
	}
	b.spec.SetFields(flat)
	return b
}

// OrderBy records a sort key, ascending by default. Direction is lowercased;
// adapters treat anything other than "asc" as descending.
func (b *Builder) OrderBy(field string, direction ...string) *Builder {
	dir := "asc"
	if len(direction) > 0 {
		dir = strings.ToLower(direction[0])
	}
	b.spec.SetSort(field, dir)
	return b
}

// Limit and Skip pass their values through verbatim; the backend decides what
// negative or zero means.
func (b *Builder) Limit(n int) *Builder {
	b.spec.SetLimit(n)
	return b
}

func (b *Builder) Skip(n int) *Builder {
	b.spec.SetSkip(n)
	return b
}

// Offset is an alias of Skip.
func (b *Builder) Offset(n int) *Builder {
	return b.Skip(n)
}

// Get executes the read and returns all matching rows, possibly empty.
func (b *Builder) Get(ctx context.Context) ([]query.Row, error) {
	return b.runner.Get(ctx, &b.spec)
}

// First returns the first matching row or nil when nothing matches. The
// Builder's configured limit is untouched: a later Get still honors it.
func (b *Builder) First(ctx context.Context) (query.Row, error) {
	return b.runner.First(ctx, &b.spec)
}

// GetWithTotal returns the current page of rows plus the condition-only total
// ignoring limit and skip.
func (b *Builder) GetWithTotal(ctx context.Context) ([]query.Row, int64, error) {
	rows, err := b.runner.Get(ctx, &b.spec)
	if err != nil {
		return nil, 0, err
	}
	total, err := b.runner.Count(ctx, b.spec.WithoutPaging(), "*")
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Insert writes one record and returns it, generated identifier included when
// the backend can echo it.
func (b *Builder) Insert(ctx context.Context, data query.Row) (query.Row, error) {
	return b.runner.InsertOne(ctx, &b.spec, data)
}

func (b *Builder) InsertMany(ctx context.Context, data []query.Row) ([]query.Row, error) {
	return b.runner.InsertMany(ctx, &b.spec, data)
}

// Update sets the given fields on every row matching the current conditions
// and returns the affected count. No conditions means every row.
func (b *Builder) Update(ctx context.Context, data query.Row) (int64, error) {
	return b.runner.UpdateMany(ctx, &b.spec, data)
}

func (b *Builder) Delete(ctx context.Context) (int64, error) {
	return b.runner.DeleteMany(ctx, &b.spec)
}

// Count returns the number of matching rows. An optional field argument
// counts non-null cells on the relational path; the document path always
// counts documents.
func (b *Builder) Count(ctx context.Context, field ...string) (int64, error) {
	f := "*"
	if len(field) > 0 && field[0] != "" {
		f = field[0]
	}
	return b.runner.Count(ctx, &b.spec, f)
}

// ToSQL renders the built read statement as text. Only adapters with the
// SQLRenderer capability support it; the document path reports
// ErrUnsupportedOperation.
func (b *Builder) ToSQL() (string, error) {
	if r, ok := b.runner.(service.SQLRenderer); ok {
		return r.ToSQL(&b.spec)
	}
	return "", fmt.Errorf("toSQL: %w", service.ErrUnsupportedOperation)
}

// flattenValues expands slice and array arguments of any element type one
// level, so WhereIn("age", ages) works no matter how the caller typed ages.
func flattenValues(values []any) []any {
	flat := make([]any, 0, len(values))
	for _, v := range values {
		if v == nil {
			flat = append(flat, v)
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			flat = append(flat, v)
			continue
		}
		for i := 0; i < rv.Len(); i++ {
			flat = append(flat, rv.Index(i).Interface())
		}
	}
	return flat
}
