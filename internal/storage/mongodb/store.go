// Package mongodb implements the persistence interfaces on a MongoDB
// collection pair: notices plus the single fetch-cursor progress document.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tenderhound/tenderhound/internal/domain"
)

const (
	noticesCollection = "notices"
	cursorCollection  = "fetch_cursor"

	// The cursor collection holds exactly one document under this id.
	cursorKey = "current"

	connectTimeout = 10 * time.Second
)

type Config struct {
	URI      string
	Database string
}

type Store struct {
	client  *mongo.Client
	notices *mongo.Collection
	cursor  *mongo.Collection
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:  client,
		notices: db.Collection(noticesCollection),
		cursor:  db.Collection(cursorCollection),
	}

	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	// Non-unique: several lifecycle notices of one procurement share an id.
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "document_id", Value: 1}},
	}
	_, err := s.notices.Indexes().CreateOne(ctx, model)
	return err
}

// Upsert inserts the notice or replaces the stored attributes of the record
// with the same document_id, last write wins.
func (s *Store) Upsert(ctx context.Context, notice domain.ProcurementNotice) error {
	filter := bson.M{"document_id": notice.DocumentID}
	update := bson.M{"$set": notice}
	opts := options.Update().SetUpsert(true)

	if _, err := s.notices.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert notice %s: %w", notice.DocumentID, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int64) ([]domain.ProcurementNotice, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.notices.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	defer cur.Close(ctx)

	var notices []domain.ProcurementNotice
	if err := cur.All(ctx, &notices); err != nil {
		return nil, fmt.Errorf("failed to decode notices: %w", err)
	}
	return notices, nil
}

func (s *Store) SaveCursor(ctx context.Context, c domain.FetchCursor) error {
	filter := bson.M{"_id": cursorKey}
	update := bson.M{"$set": c}
	opts := options.Update().SetUpsert(true)

	if _, err := s.cursor.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save fetch cursor: %w", err)
	}
	return nil
}

func (s *Store) LoadCursor(ctx context.Context) (*domain.FetchCursor, error) {
	var c domain.FetchCursor
	err := s.cursor.FindOne(ctx, bson.M{"_id": cursorKey}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch cursor: %w", err)
	}
	return &c, nil
}

func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
