package service

import (
	"context"

	"github.com/PolyQuery/go-polyquery/query"
)

// Runner is the adapter contract shared by the relational and document
// backends. Every method reads the Spec, never mutates it.
type Runner interface {
	Get(ctx context.Context, spec *query.Spec) ([]query.Row, error)
	First(ctx context.Context, spec *query.Spec) (query.Row, error)
	InsertOne(ctx context.Context, spec *query.Spec, data query.Row) (query.Row, error)
	InsertMany(ctx context.Context, spec *query.Spec, data []query.Row) ([]query.Row, error)
	UpdateMany(ctx context.Context, spec *query.Spec, data query.Row) (int64, error)
	DeleteMany(ctx context.Context, spec *query.Spec) (int64, error)
	Count(ctx context.Context, spec *query.Spec, field string) (int64, error)
}

// SQLRenderer is the optional capability of rendering the built statement as
// text. Only the relational adapter implements it; the Builder discovers it
// with a type assertion instead of inspecting adapter types.
type SQLRenderer interface {
	ToSQL(spec *query.Spec) (string, error)
}
