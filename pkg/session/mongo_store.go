package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongoconn "github.com/dmitrymomot/httpsession/pkg/mongo"
)

// MongoStore persists session records in one MongoDB collection. Documents
// carry the serialized record plus an expires_at field covered by a TTL
// index, so MongoDB reaps expired sessions on its own.
type MongoStore struct {
	coll       *mongo.Collection
	defaultTTL time.Duration
}

// sessionDoc is the persisted document shape. The record is kept as raw
// JSON rather than nested BSON so it round-trips byte-identically with the
// other stores.
type sessionDoc struct {
	ID        string    `bson:"_id"`
	Record    []byte    `bson:"record"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoStoreOption configures a MongoStore.
type MongoStoreOption func(*MongoStore)

// WithMongoDefaultTTL sets the expiry applied to records whose cookie is
// session-only (default 24h).
func WithMongoDefaultTTL(ttl time.Duration) MongoStoreOption {
	return func(s *MongoStore) {
		s.defaultTTL = ttl
	}
}

// NewMongoStore creates a Mongo-backed session store and ensures the TTL
// index on expires_at exists.
func NewMongoStore(ctx context.Context, coll *mongo.Collection, opts ...MongoStoreOption) (*MongoStore, error) {
	s := &MongoStore{
		coll:       coll,
		defaultTTL: 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewMongoStoreFromConfig connects to MongoDB per cfg (with retries) and
// builds a store on the configured database and collection.
func NewMongoStoreFromConfig(ctx context.Context, cfg mongoconn.Config, opts ...MongoStoreOption) (*MongoStore, error) {
	client, err := mongoconn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return NewMongoStore(ctx, coll, opts...)
}

// Get retrieves the record for id. The TTL monitor runs periodically, so
// documents past their expiry are filtered here as well.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if time.Now().After(doc.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	return decodeRecord(doc.Record)
}

// Set upserts the record for id.
func (s *MongoStore) Set(ctx context.Context, id string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	doc := sessionDoc{
		ID:        id,
		Record:    raw,
		ExpiresAt: s.expiresAt(rec),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

// Destroy removes the record for id. Missing documents are a silent
// success.
func (s *MongoStore) Destroy(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Touch refreshes only the document's expiry.
func (s *MongoStore) Touch(ctx context.Context, id string, rec *Record) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"expires_at": s.expiresAt(rec)}},
	)
	return err
}

func (s *MongoStore) expiresAt(rec *Record) time.Time {
	if rec != nil && rec.Cookie != nil && rec.Cookie.Expires != nil {
		return *rec.Cookie.Expires
	}
	return time.Now().Add(s.defaultTTL)
}
