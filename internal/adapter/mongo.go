package adapter

import (
	"context"

	"github.com/PolyQuery/go-polyquery/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore is the consumed document-store capability: a live database
// handle that can hand out named collections.
type DocumentStore interface {
	Collection(name string) DocumentCollection
}

// DocumentCollection is the narrow slice of a collection the adapter needs.
// Counts are best-effort: implementations report 0 when the backend omits
// modification metadata.
type DocumentCollection interface {
	Find(ctx context.Context, filter any, opts *options.FindOptions) ([]query.Row, error)
	InsertOne(ctx context.Context, doc query.Row) (any, error)
	InsertMany(ctx context.Context, docs []any) ([]any, error)
	UpdateMany(ctx context.Context, filter, update any) (int64, error)
	DeleteMany(ctx context.Context, filter any) (int64, error)
	Count(ctx context.Context, filter any) (int64, error)
}

// NewMongoStore wraps a borrowed *mongo.Database. A nil handle yields a nil
// store, which NewDocument reports as a missing dependency.
func NewMongoStore(db *mongo.Database) DocumentStore {
	if db == nil {
		return nil
	}
	return &mongoStore{db: db}
}

type mongoStore struct {
	db *mongo.Database
}

func (s *mongoStore) Collection(name string) DocumentCollection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, filter any, opts *options.FindOptions) ([]query.Row, error) {
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	docs := make([]query.Row, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc query.Row) (any, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (c *mongoCollection) InsertMany(ctx context.Context, docs []any) ([]any, error) {
	res, err := c.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	return res.InsertedIDs, nil
}

func (c *mongoCollection) UpdateMany(ctx context.Context, filter, update any) (int64, error) {
	res, err := c.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, nil
	}
	return res.ModifiedCount, nil
}

func (c *mongoCollection) DeleteMany(ctx context.Context, filter any) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, nil
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) Count(ctx context.Context, filter any) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}
