package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sweetpotato0/agentbridge/runlog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists run entries in MongoDB.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration.
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "agentbridge",
		Collection: "runs",
	}
}

// mongoEntry is the internal representation for MongoDB.
type mongoEntry struct {
	ID         string    `bson:"_id"`
	Query      string    `bson:"query"`
	Strategy   string    `bson:"strategy"`
	Workflow   string    `bson:"workflow,omitempty"`
	Agents     []string  `bson:"agents"`
	TextLength int       `bson:"text_length"`
	ImageCount int       `bson:"image_count"`
	Error      string    `bson:"error,omitempty"`
	DurationMS int64     `bson:"duration_ms"`
	CreatedAt  time.Time `bson:"created_at"`
}

// NewMongoStore creates a MongoDB-backed run store.
func NewMongoStore(config *MongoConfig) (*MongoStore, error) {
	if config == nil {
		config = DefaultMongoConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(config.Database).Collection(config.Collection)
	store := &MongoStore{client: client, collection: collection}

	if err := store.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return store, nil
}

func (s *MongoStore) createIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}
	_, err := s.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// Append records one run.
func (s *MongoStore) Append(ctx context.Context, entry *runlog.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ID == "" {
		entry.ID = runlog.NewEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	doc := mongoEntry{
		ID:         entry.ID,
		Query:      entry.Query,
		Strategy:   entry.Strategy,
		Workflow:   entry.Workflow,
		Agents:     entry.Agents,
		TextLength: entry.TextLength,
		ImageCount: entry.ImageCount,
		Error:      entry.Error,
		DurationMS: entry.Duration.Milliseconds(),
		CreatedAt:  entry.CreatedAt,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*runlog.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*runlog.Entry
	for cursor.Next(ctx) {
		var doc mongoEntry
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode run: %w", err)
		}
		entries = append(entries, &runlog.Entry{
			ID:         doc.ID,
			Query:      doc.Query,
			Strategy:   doc.Strategy,
			Workflow:   doc.Workflow,
			Agents:     doc.Agents,
			TextLength: doc.TextLength,
			ImageCount: doc.ImageCount,
			Error:      doc.Error,
			Duration:   time.Duration(doc.DurationMS) * time.Millisecond,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return entries, cursor.Err()
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
