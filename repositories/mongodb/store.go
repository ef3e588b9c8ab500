// Package mongodb implements the document store on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/pet-house-api/config"
	"github.com/upb/pet-house-api/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Store is a repositories.DocumentStore backed by one long-lived client
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var _ repositories.DocumentStore = (*Store)(nil)

// Open connects to MongoDB, verifies the connection and ensures indexes
func Open(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("mongo connection established", zap.String("connection", cfg.LogString()))

	store := NewStore(client, cfg.Database, logger)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

// NewStore wraps an already connected client
func NewStore(client *mongo.Client, database string, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}
}

// EnsureIndexes creates the unique email index on users
func (s *Store) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	}
	if _, err := s.db.Collection("users").Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

func toBSON(filter repositories.Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}

// encodeDocument converts doc to a bson.M with _id forced to id
func encodeDocument(id string, doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	m[repositories.IDField] = id
	return m, nil
}

// Find decodes all matching documents into out
func (s *Store) Find(ctx context.Context, collection string, filter repositories.Filter, out interface{}) error {
	cursor, err := s.db.Collection(collection).Find(ctx, toBSON(filter))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

// FindOne decodes the first matching document into out
func (s *Store) FindOne(ctx context.Context, collection string, filter repositories.Filter, out interface{}) error {
	err := s.db.Collection(collection).FindOne(ctx, toBSON(filter)).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repositories.ErrNoDocuments
		}
		return fmt.Errorf("failed to get %s document: %w", collection, err)
	}
	return nil
}

// InsertOne stores doc under id
func (s *Store) InsertOne(ctx context.Context, collection string, id string, doc interface{}) error {
	m, err := encodeDocument(id, doc)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert %s document: %w", collection, err)
	}
	return nil
}

// ReplaceOne replaces the matching document, inserting under id when upsert is set
func (s *Store) ReplaceOne(ctx context.Context, collection string, filter repositories.Filter, id string, doc interface{}, upsert bool) (repositories.UpdateResult, error) {
	var result repositories.UpdateResult

	m, err := encodeDocument(id, doc)
	if err != nil {
		return result, err
	}

	res, err := s.db.Collection(collection).ReplaceOne(ctx, toBSON(filter), m, options.Replace().SetUpsert(upsert))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return result, repositories.ErrDuplicateKey
		}
		return result, fmt.Errorf("failed to replace %s document: %w", collection, err)
	}

	result.MatchedCount = res.MatchedCount
	result.ModifiedCount = res.ModifiedCount
	if res.UpsertedCount > 0 {
		upserted := id
		if sid, ok := res.UpsertedID.(string); ok {
			upserted = sid
		}
		result.UpsertedID = &upserted
	}
	return result, nil
}

// SetFields applies a $set of fields to the first matching document
func (s *Store) SetFields(ctx context.Context, collection string, filter repositories.Filter, fields map[string]interface{}) (repositories.UpdateResult, error) {
	if _, ok := fields[repositories.IDField]; ok {
		return repositories.UpdateResult{}, fmt.Errorf("cannot set %s", repositories.IDField)
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, toBSON(filter), bson.M{"$set": fields})
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("failed to update %s document: %w", collection, err)
	}
	return repositories.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// DeleteOne removes the first matching document
func (s *Store) DeleteOne(ctx context.Context, collection string, filter repositories.Filter) (int64, error) {
	res, err := s.db.Collection(collection).DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s document: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// Ping checks connectivity to the primary
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	s.logger.Info("closing mongo connection")
	return s.client.Disconnect(ctx)
}
