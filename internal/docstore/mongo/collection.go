// Package mongo stores documents in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// Connect opens a client and verifies the deployment is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Collection is a docstore.Collection backed by a MongoDB collection. Ids are ObjectID hex strings.
type Collection struct {
	coll *mongo.Collection
}

var _ docstore.Collection = (*Collection)(nil)

// NewCollection constructs a Collection over db.name.
func NewCollection(db *mongo.Database, name string) *Collection {
	return &Collection{coll: db.Collection(name)}
}

// Insert implements docstore.Collection.
func (c *Collection) Insert(ctx context.Context, fields docstore.Fields) (string, error) {
	doc := bson.M{}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FetchAll implements docstore.Collection.
func (c *Collection) FetchAll(ctx context.Context) ([]docstore.Document, error) {
	cursor, err := c.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	docs := make([]docstore.Document, 0, len(raw))
	for _, item := range raw {
		id, err := idString(item["_id"])
		if err != nil {
			return nil, err
		}
		fields := make(docstore.Fields, len(item))
		for k, v := range item {
			if k == "_id" {
				continue
			}
			fields[k] = v
		}
		docs = append(docs, docstore.Document{ID: id, Fields: fields})
	}
	return docs, nil
}

// OverwriteFields implements docstore.Collection with a $set update.
func (c *Collection) OverwriteFields(ctx context.Context, id string, fields docstore.Fields) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return docstore.ErrNotFound
	}

	set := bson.M{}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		n, err := c.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if n == 0 {
			return docstore.ErrNotFound
		}
		return nil
	}

	res, err := c.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Remove implements docstore.Collection. Malformed ids cannot exist and are ignored.
func (c *Collection) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func idString(v any) (string, error) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	case nil:
		return "", errors.New("document without _id")
	default:
		return fmt.Sprint(id), nil
	}
}
