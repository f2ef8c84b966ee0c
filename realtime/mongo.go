package realtime

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeStreamFeed adapts a MongoDB change stream to the Feed interface.
type changeStreamFeed struct {
	stream *mongo.ChangeStream
}

func (f *changeStreamFeed) Next(ctx context.Context) bool {
	return f.stream.Next(ctx)
}

func (f *changeStreamFeed) Err() error {
	return f.stream.Err()
}

func (f *changeStreamFeed) Close(ctx context.Context) error {
	return f.stream.Close(ctx)
}

// MongoCollectionSource watches a collection filtered by a query. Each
// change notification triggers a requery, so snapshots always carry the
// full ordered result set.
type MongoCollectionSource[T any] struct {
	coll   *mongo.Collection
	filter bson.M
}

func NewMongoCollectionSource[T any](coll *mongo.Collection, filter bson.M) *MongoCollectionSource[T] {
	if filter == nil {
		filter = bson.M{}
	}
	return &MongoCollectionSource[T]{coll: coll, filter: filter}
}

func (s *MongoCollectionSource[T]) Load(ctx context.Context) ([]T, error) {
	cursor, err := s.coll.Find(ctx, s.filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoCollectionSource[T]) Watch(ctx context.Context) (Feed, error) {
	stream, err := s.coll.Watch(ctx, mongo.Pipeline{},
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}
	return &changeStreamFeed{stream: stream}, nil
}

// MongoDocumentSource watches a single document by id.
type MongoDocumentSource[T any] struct {
	coll *mongo.Collection
	id   string
}

func NewMongoDocumentSource[T any](coll *mongo.Collection, id string) *MongoDocumentSource[T] {
	return &MongoDocumentSource[T]{coll: coll, id: id}
}

func (s *MongoDocumentSource[T]) Load(ctx context.Context) (*T, error) {
	var doc T
	err := s.coll.FindOne(ctx, bson.M{"_id": s.id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoDocumentSource[T]) Watch(ctx context.Context) (Feed, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: s.id}}}},
	}
	stream, err := s.coll.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}
	return &changeStreamFeed{stream: stream}, nil
}
