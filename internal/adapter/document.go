package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolyQuery/go-polyquery/query"
	"github.com/PolyQuery/go-polyquery/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentAdapter translates a Spec into a filter document plus find options
// against a borrowed document-store handle.
type DocumentAdapter struct {
	store DocumentStore
}

func NewDocument(store DocumentStore) (*DocumentAdapter, error) {
	if store == nil {
		return nil, fmt.Errorf("document-store client not registered: %w", service.ErrMissingDependency)
	}
	return &DocumentAdapter{store: store}, nil
}

func (a *DocumentAdapter) collection(spec *query.Spec) DocumentCollection {
	return a.store.Collection(spec.Target)
}

// buildFilter folds all conditions into a single filter keyed by field name.
// Two conditions on the same field overwrite: the later one wins. Known
// limitation, kept on purpose; range pairs on one field need distinct fields.
func buildFilter(spec *query.Spec) bson.M {
	filter := bson.M{}
	for _, c := range spec.Conditions {
		filter[c.Field] = operatorClause(c)
	}
	return filter
}

// operatorClause maps one condition to its document-store operator form.
// Unknown operators silently fall back to exact match rather than erroring.
func operatorClause(c query.Condition) bson.M {
	switch strings.ToLower(strings.TrimSpace(c.Operator)) {
	case query.OpNe, "<>", "ne":
		return bson.M{"$ne": c.Value}
	case query.OpGt, "gt":
		return bson.M{"$gt": c.Value}
	case query.OpGte, "gte":
		return bson.M{"$gte": c.Value}
	case query.OpLt, "lt":
		return bson.M{"$lt": c.Value}
	case query.OpLte, "lte":
		return bson.M{"$lte": c.Value}
	case query.OpLike:
		// SQL wildcard convention translated to a case-insensitive pattern.
		pattern := strings.ReplaceAll(fmt.Sprint(c.Value), "%", ".*")
		return bson.M{"$regex": pattern, "$options": "i"}
	case query.OpIn:
		return bson.M{"$in": toValues(c.Value)}
	case query.OpNotIn, "not_in", "nin":
		return bson.M{"$nin": toValues(c.Value)}
	default:
		return bson.M{"$eq": c.Value}
	}
}

func buildOptions(spec *query.Spec) *options.FindOptions {
	opts := options.Find()
	if len(spec.Fields) > 0 {
		proj := bson.D{}
		for _, f := range spec.Fields {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		opts.SetProjection(proj)
	}
	if len(spec.SortKeys) > 0 {
		sort := bson.D{}
		for _, s := range spec.SortKeys {
			dir := -1
			if s.Direction == "asc" {
				dir = 1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	if spec.Limit != nil {
		opts.SetLimit(int64(*spec.Limit))
	}
	if spec.Skip != nil {
		opts.SetSkip(int64(*spec.Skip))
	}
	return opts
}

func (a *DocumentAdapter) Get(ctx context.Context, spec *query.Spec) ([]query.Row, error) {
	docs, err := a.collection(spec).Find(ctx, buildFilter(spec), buildOptions(spec))
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = make([]query.Row, 0)
	}
	return docs, nil
}

func (a *DocumentAdapter) First(ctx context.Context, spec *query.Spec) (query.Row, error) {
	docs, err := a.Get(ctx, spec.WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// InsertOne echoes the input merged with the generated identifier. Documents
// that already carry an _id keep it.
func (a *DocumentAdapter) InsertOne(ctx context.Context, spec *query.Spec, data query.Row) (query.Row, error) {
	row := copyRow(data)
	id, err := a.collection(spec).InsertOne(ctx, row)
	if err != nil {
		return nil, err
	}
	if id != nil {
		if _, ok := row["_id"]; !ok {
			row["_id"] = id
		}
	}
	return row, nil
}

func (a *DocumentAdapter) InsertMany(ctx context.Context, spec *query.Spec, data []query.Row) ([]query.Row, error) {
	rows := make([]query.Row, 0, len(data))
	docs := make([]any, 0, len(data))
	for _, d := range data {
		row := copyRow(d)
		rows = append(rows, row)
		docs = append(docs, row)
	}
	ids, err := a.collection(spec).InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		if i >= len(rows) || id == nil {
			continue
		}
		if _, ok := rows[i]["_id"]; !ok {
			rows[i]["_id"] = id
		}
	}
	return rows, nil
}

func (a *DocumentAdapter) UpdateMany(ctx context.Context, spec *query.Spec, data query.Row) (int64, error) {
	return a.collection(spec).UpdateMany(ctx, buildFilter(spec), bson.M{"$set": bson.M(data)})
}

func (a *DocumentAdapter) DeleteMany(ctx context.Context, spec *query.Spec) (int64, error) {
	return a.collection(spec).DeleteMany(ctx, buildFilter(spec))
}

// Count ignores the field argument: document stores count matching documents,
// not non-null cells.
func (a *DocumentAdapter) Count(ctx context.Context, spec *query.Spec, _ string) (int64, error) {
	return a.collection(spec).Count(ctx, buildFilter(spec))
}
