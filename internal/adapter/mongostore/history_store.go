// Package mongostore keeps session records in MongoDB, one document per
// record keyed by its ULID.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"skillcheck/internal/config"
	"skillcheck/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "session_records"

// HistoryStore implements domain.HistoryStore on a mongo collection.
type HistoryStore struct {
	coll *mongo.Collection
}

func NewHistoryStore(coll *mongo.Collection) *HistoryStore {
	return &HistoryStore{coll: coll}
}

// Connect opens a client for cfg and returns the record collection. The
// caller disconnects the client.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Collection, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo uri is empty")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, client.Database(cfg.Database).Collection(CollectionName), nil
}

// EnsureIndexes creates the history lookup index. The index is unique so a
// (user, skill) history cannot hold two records with one timestamp.
func (s *HistoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "skill", Value: 1}, {Key: "timestamp", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_skill_timestamp"),
	})
	if err != nil {
		return fmt.Errorf("failed to create history index: %w", err)
	}
	return nil
}

func (s *HistoryStore) Append(ctx context.Context, record *domain.SessionRecord) error {
	if _, err := s.coll.InsertOne(ctx, record); err != nil {
		return &domain.PersistenceError{Op: "append", Err: err}
	}
	return nil
}

func (s *HistoryStore) Read(ctx context.Context, userID, skill string) ([]*domain.SessionRecord, error) {
	filter := bson.M{"user_id": userID, "skill": skill}
	sort := bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}
	return s.find(ctx, "read", filter, sort)
}

func (s *HistoryStore) ListByUser(ctx context.Context, userID string) ([]*domain.SessionRecord, error) {
	sort := bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}
	return s.find(ctx, "list", bson.M{"user_id": userID}, sort)
}

func (s *HistoryStore) find(ctx context.Context, op string, filter bson.M, sort bson.D) ([]*domain.SessionRecord, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, &domain.PersistenceError{Op: op, Err: err}
	}
	records := make([]*domain.SessionRecord, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, &domain.PersistenceError{Op: op, Err: err}
	}
	for _, r := range records {
		r.Timestamp = r.Timestamp.UTC()
	}
	return records, nil
}
