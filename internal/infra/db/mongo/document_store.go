package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staycal/internal/infra/storage/docstore"
)

// DocumentStore implements the document port on a Mongo database. Each
// docstore collection maps to the Mongo collection of the same name.
type DocumentStore struct {
	db *mongo.Database
}

// NewDocumentStore also creates the equality indexes the data sources query on.
func NewDocumentStore(ctx context.Context, db *mongo.Database) (*DocumentStore, error) {
	indexes := map[string][]mongo.IndexModel{
		docstore.CollectionProperties: {{Keys: bson.D{{Key: "owner_id", Value: 1}}}},
		docstore.CollectionReservations: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "date", Value: 1}}},
		},
		docstore.CollectionSubUsers: {{Keys: bson.D{{Key: "owner_id", Value: 1}}}},
		docstore.CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return nil, err
		}
	}
	return &DocumentStore{db: db}, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNotFound
	}
	return err
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, doc any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Find returns matches in natural order.
func (s *DocumentStore) Find(ctx context.Context, collection, field string, value any, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *DocumentStore) DeleteWhere(ctx context.Context, collection, field string, value any) (int, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{field: value})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

var _ docstore.Store = (*DocumentStore)(nil)
