package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/fleet-chatbot/internal/models"
)

// ConnectMongo connects to MongoDB and verifies the connection with a
// ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}
	return client, nil
}

// MongoStore loads fleet snapshots from MongoDB collections instead of
// JSON files. It satisfies the same Store contract, so the rest of the
// pipeline does not care which backend is configured.
type MongoStore struct {
	Vehicles *mongo.Collection
	Records  *mongo.Collection
}

// NewMongoStore creates a Mongo-backed store over the vehicles and
// maintenance collections of the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		Vehicles: db.Collection("vehicles"),
		Records:  db.Collection("maintenance_records"),
	}
}

// Load reads both collections into a snapshot.
func (s *MongoStore) Load(ctx context.Context) (*Snapshot, error) {
	if s.Vehicles == nil || s.Records == nil {
		return nil, fmt.Errorf("mongo store collections are nil")
	}

	snap := &Snapshot{}

	cursor, err := s.Vehicles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find vehicles: %w", err)
	}
	if err := cursor.All(ctx, &snap.Vehicles); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}

	cursor, err = s.Records.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find maintenance records: %w", err)
	}
	if err := cursor.All(ctx, &snap.Records); err != nil {
		return nil, fmt.Errorf("decode maintenance records: %w", err)
	}

	return snap, nil
}

// ReplaceAll swaps the full contents of both collections. The sync
// process uses this so a concurrent Load sees either the old or the new
// data set, mirroring the temp-and-rename replacement of the file
// backend.
func (s *MongoStore) ReplaceAll(ctx context.Context, vehicles []models.Vehicle, records []models.MaintenanceRecord) error {
	if s.Vehicles == nil || s.Records == nil {
		return fmt.Errorf("mongo store collections are nil")
	}

	if _, err := s.Vehicles.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear vehicles: %w", err)
	}
	if len(vehicles) > 0 {
		docs := make([]interface{}, len(vehicles))
		for i, v := range vehicles {
			docs[i] = v
		}
		if _, err := s.Vehicles.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert vehicles: %w", err)
		}
	}

	if _, err := s.Records.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear maintenance records: %w", err)
	}
	if len(records) > 0 {
		docs := make([]interface{}, len(records))
		for i, r := range records {
			docs[i] = r
		}
		if _, err := s.Records.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert maintenance records: %w", err)
		}
	}

	return nil
}
