package adapter

import (
	"context"
	"testing"

	"github.com/PolyQuery/go-polyquery/query"
	"github.com/PolyQuery/go-polyquery/service"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection records every call so tests can assert on the filter and
// options the adapter built.
type fakeCollection struct {
	findFilter   any
	findOpts     *options.FindOptions
	docs         []query.Row
	insertedID   any
	insertedIDs  []any
	updateFilter any
	update       any
	modified     int64
	deleteFilter any
	deleted      int64
	countFilter  any
	count        int64
	err          error
}

func (f *fakeCollection) Find(_ context.Context, filter any, opts *options.FindOptions) ([]query.Row, error) {
	f.findFilter = filter
	f.findOpts = opts
	return f.docs, f.err
}

func (f *fakeCollection) InsertOne(_ context.Context, _ query.Row) (any, error) {
	return f.insertedID, f.err
}

func (f *fakeCollection) InsertMany(_ context.Context, _ []any) ([]any, error) {
	return f.insertedIDs, f.err
}

func (f *fakeCollection) UpdateMany(_ context.Context, filter, update any) (int64, error) {
	f.updateFilter = filter
	f.update = update
	return f.modified, f.err
}

func (f *fakeCollection) DeleteMany(_ context.Context, filter any) (int64, error) {
	f.deleteFilter = filter
	return f.deleted, f.err
}

func (f *fakeCollection) Count(_ context.Context, filter any) (int64, error) {
	f.countFilter = filter
	return f.count, f.err
}

type fakeStore struct {
	coll     *fakeCollection
	lastName string
}

func (s *fakeStore) Collection(name string) DocumentCollection {
	s.lastName = name
	return s.coll
}

func newFakeAdapter(coll *fakeCollection) (*DocumentAdapter, *fakeStore) {
	store := &fakeStore{coll: coll}
	a, err := NewDocument(store)
	if err != nil {
		panic(err)
	}
	return a, store
}

func TestNewDocumentRequiresClient(t *testing.T) {
	_, err := NewDocument(nil)
	assert.ErrorIs(t, err, service.ErrMissingDependency)
}

func TestBuildFilterScenario(t *testing.T) {
	coll := &fakeCollection{}
	a, store := newFakeAdapter(coll)

	spec := &query.Spec{Target: "users"}
	spec.AddCondition("status", query.OpEq, "active")
	spec.AddCondition("age", query.OpGt, 18)
	spec.SetSort("created_at", "desc")
	spec.SetLimit(10)

	_, err := a.Get(context.Background(), spec)
	assert.NoError(t, err)
	assert.Equal(t, "users", store.lastName)
	assert.Equal(t, bson.M{
		"status": bson.M{"$eq": "active"},
		"age":    bson.M{"$gt": 18},
	}, coll.findFilter)
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, coll.findOpts.Sort)
	assert.Equal(t, int64(10), *coll.findOpts.Limit)
	assert.Nil(t, coll.findOpts.Skip)
}

func TestBuildFilterOperators(t *testing.T) {
	tests := []struct {
		operator string
		value    any
		want     bson.M
	}{
		{query.OpEq, "a", bson.M{"$eq": "a"}},
		{query.OpNe, "a", bson.M{"$ne": "a"}},
		{"<>", "a", bson.M{"$ne": "a"}},
		{query.OpGt, 1, bson.M{"$gt": 1}},
		{query.OpGte, 1, bson.M{"$gte": 1}},
		{query.OpLt, 1, bson.M{"$lt": 1}},
		{query.OpLte, 1, bson.M{"$lte": 1}},
		{query.OpIn, []any{"a", "b"}, bson.M{"$in": []any{"a", "b"}}},
		{query.OpNotIn, []any{"a"}, bson.M{"$nin": []any{"a"}}},
		// Unknown operators silently fall back to exact match.
		{"GLOB", "a*", bson.M{"$eq": "a*"}},
	}
	for _, tt := range tests {
		t.Run(tt.operator, func(t *testing.T) {
			got := operatorClause(query.Condition{Field: "f", Operator: tt.operator, Value: tt.value})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLikeBecomesCaseInsensitiveRegex(t *testing.T) {
	got := operatorClause(query.Condition{Field: "name", Operator: query.OpLike, Value: "%john%"})
	assert.Equal(t, bson.M{"$regex": ".*john.*", "$options": "i"}, got)
}

func TestSameFieldConditionOverwrites(t *testing.T) {
	spec := &query.Spec{Target: "users"}
	spec.AddCondition("age", query.OpGte, 10)
	spec.AddCondition("age", query.OpLte, 20)

	filter := buildFilter(spec)
	assert.Equal(t, bson.M{"age": bson.M{"$lte": 20}}, filter)
}

func TestEmptyInPassesThrough(t *testing.T) {
	spec := &query.Spec{Target: "users"}
	spec.AddCondition("role", query.OpIn, []any{})

	filter := buildFilter(spec)
	assert.Equal(t, bson.M{"role": bson.M{"$in": []any{}}}, filter)
}

func TestBuildOptionsProjection(t *testing.T) {
	spec := &query.Spec{Target: "users"}
	spec.SetFields([]string{"name", "age"})
	spec.SetSkip(5)

	opts := buildOptions(spec)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "age", Value: 1}}, opts.Projection)
	assert.Equal(t, int64(5), *opts.Skip)
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Sort)
}

func TestFirstUsesLimitOneAndKeepsSpec(t *testing.T) {
	coll := &fakeCollection{docs: []query.Row{{"name": "A"}, {"name": "B"}}}
	a, _ := newFakeAdapter(coll)

	spec := &query.Spec{Target: "users"}
	spec.SetLimit(50)

	row, err := a.First(context.Background(), spec)
	assert.NoError(t, err)
	assert.Equal(t, "A", row["name"])
	assert.Equal(t, int64(1), *coll.findOpts.Limit)
	assert.Equal(t, 50, *spec.Limit)
}

func TestFirstReturnsNilOnEmpty(t *testing.T) {
	a, _ := newFakeAdapter(&fakeCollection{})

	row, err := a.First(context.Background(), &query.Spec{Target: "users"})
	assert.NoError(t, err)
	assert.Nil(t, row)
}

func TestInsertOneMergesGeneratedID(t *testing.T) {
	id := primitive.NewObjectID()
	a, _ := newFakeAdapter(&fakeCollection{insertedID: id})

	data := query.Row{"name": "A"}
	row, err := a.InsertOne(context.Background(), &query.Spec{Target: "users"}, data)
	assert.NoError(t, err)
	assert.Equal(t, id, row["_id"])
	assert.Equal(t, "A", row["name"])
	// The caller's map stays untouched.
	assert.NotContains(t, data, "_id")
}

func TestInsertManyMergesGeneratedIDs(t *testing.T) {
	ids := []any{primitive.NewObjectID(), primitive.NewObjectID()}
	a, _ := newFakeAdapter(&fakeCollection{insertedIDs: ids})

	rows, err := a.InsertMany(context.Background(), &query.Spec{Target: "users"}, []query.Row{
		{"name": "A"}, {"name": "B"},
	})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, ids[0], rows[0]["_id"])
	assert.Equal(t, ids[1], rows[1]["_id"])
}

func TestUpdateManySetsFields(t *testing.T) {
	coll := &fakeCollection{modified: 3}
	a, _ := newFakeAdapter(coll)

	spec := &query.Spec{Target: "users"}
	spec.AddCondition("status", query.OpEq, "active")

	n, err := a.UpdateMany(context.Background(), spec, query.Row{"status": "archived"})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, bson.M{"status": bson.M{"$eq": "active"}}, coll.updateFilter)
	assert.Equal(t, bson.M{"$set": bson.M{"status": "archived"}}, coll.update)
}

func TestDeleteManyReportsCount(t *testing.T) {
	coll := &fakeCollection{deleted: 2}
	a, _ := newFakeAdapter(coll)

	spec := &query.Spec{Target: "users"}
	spec.AddCondition("status", query.OpEq, "stale")

	n, err := a.DeleteMany(context.Background(), spec)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, bson.M{"status": bson.M{"$eq": "stale"}}, coll.deleteFilter)
}

func TestCountAppliesFilter(t *testing.T) {
	coll := &fakeCollection{count: 7}
	a, _ := newFakeAdapter(coll)

	spec := &query.Spec{Target: "users"}
	spec.AddCondition("age", query.OpGte, 18)

	n, err := a.Count(context.Background(), spec, "*")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, bson.M{"age": bson.M{"$gte": 18}}, coll.countFilter)
}
