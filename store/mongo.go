package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoCollection[T any, P DocPtr[T]] struct {
	coll *mongo.Collection
	sort Sort
	now  func() time.Time
}

func NewMongo[T any, P DocPtr[T]](db *mongo.Database, name string, sort Sort) *MongoCollection[T, P] {
	return &MongoCollection[T, P]{coll: db.Collection(name), sort: sort, now: time.Now}
}

func (c *MongoCollection[T, P]) Name() string { return c.coll.Name() }

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func (c *MongoCollection[T, P]) Load(ctx context.Context, where ...Where) ([]T, error) {
	filter := bson.D{}
	for _, w := range where {
		filter = append(filter, bson.E{Key: w.Field, Value: w.Value})
	}

	opts := options.Find()
	if c.sort.Field != "" {
		dir := 1
		if c.sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: c.sort.Field, Value: dir}})
	}

	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *MongoCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *MongoCollection[T, P]) Exists(ctx context.Context, id string) (bool, error) {
	n, err := c.coll.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *MongoCollection[T, P]) Create(ctx context.Context, doc *T) error {
	prepare[T, P](doc, c.now())
	_, err := c.coll.InsertOne(ctx, doc)
	return err
}

func (c *MongoCollection[T, P]) Update(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range withUpdatedAt(fields, c.now()) {
		set[k] = v
	}

	res, err := c.coll.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection[T, P]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
