package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	connectionsCollection = "connections"
)

// Connect dials MongoDB and pings it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Println("Connected to MongoDB successfully")
	return client, nil
}

// ConnectWithRetry calls Connect up to attempts times, sleeping between tries.
func ConnectWithRetry(ctx context.Context, uri string, attempts int, wait time.Duration) (*mongo.Client, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := Connect(ctx, uri)
		if err == nil {
			return client, nil
		}
		lastErr = err
		log.Printf("MongoDB connection attempt %d failed: %v", i, err)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}

// EnsureIndexes creates the unique constraints the services rely on: one
// account per email and one connection per unordered pair of users.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}

	_, err = db.Collection(connectionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("pair_unique"),
		},
		{
			Keys:    bson.D{{Key: "fromUserId", Value: 1}, {Key: "toUserId", Value: 1}},
			Options: options.Index().SetName("from_to"),
		},
		{
			Keys:    bson.D{{Key: "toUserId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("to_status"),
		},
	})
	if err != nil {
		return fmt.Errorf("create connections indexes: %w", err)
	}
	return nil
}
