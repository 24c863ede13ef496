package roles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoTimeout = 10 * time.Second

// MongoConfig captures the settings needed to reach the role database.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectMongo establishes a client, verifies it with a ping, and returns the
// client with the selected database.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// MongoDirectory keeps one collection per partition; each document carries
// an "email" field.
type MongoDirectory struct {
	db *mongo.Database
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{db: db}
}

func (d *MongoDirectory) FindByEmailInPartition(ctx context.Context, partition, email string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})

	var doc bson.M
	err := d.db.Collection(partition).FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, wrapCtxErr("mongo lookup", err)
	}
	return true, nil
}

// Add upserts a member document.
func (d *MongoDirectory) Add(ctx context.Context, partition, email string) error {
	_, err := d.db.Collection(partition).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"email": email}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo add member: %w", err)
	}
	return nil
}
