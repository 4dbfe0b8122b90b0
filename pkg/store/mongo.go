package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection holds the documents.
const DefaultMongoCollection = "scenarios"

// MongoStore keeps documents in a MongoDB collection, one record per ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID       string    `bson:"_id"`
	Data     []byte    `bson:"data"`
	Modified time.Time `bson:"modified"`
}

// NewMongoStore connects to uri and uses database.DefaultMongoCollection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	err = retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(DefaultMongoCollection)}, nil
}

// Get reads a document.
func (s *MongoStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Put upserts a document.
func (s *MongoStore) Put(ctx context.Context, id string, data []byte) error {
	if err := validID(id); err != nil {
		return err
	}
	doc := mongoDoc{ID: id, Data: data, Modified: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete removes a document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List returns every document sorted by ID. Only the size of each payload
// is computed server side.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "modified": 1, "size": bson.M{"$binarySize": "$data"}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Info
	for cur.Next(ctx) {
		var row struct {
			ID       string    `bson:"_id"`
			Size     int       `bson:"size"`
			Modified time.Time `bson:"modified"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, Info{ID: row.ID, Size: row.Size, Modified: row.Modified})
	}
	return out, cur.Err()
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
