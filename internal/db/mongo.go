// Package db opens the backing stores (MongoDB, optional Redis) and creates indexes.
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// UsersCollection holds user accounts with embedded confirmation/recovery state.
	UsersCollection = "users"
	// SessionsCollection holds one row per live (userId, deviceId) pair.
	SessionsCollection = "sessions"
	// RateLimitCollection is the append-only request log for the rate limiter.
	RateLimitCollection = "rateLimit"
)

// OpenMongo connects to MongoDB and returns the named database handle.
// Caller must call Client().Disconnect when done.
func OpenMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second)
	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}
	return cli.Database(database), nil
}

// EnsureIndexes creates the indexes the auth core relies on: unique login and
// email, one session row per (userId, deviceId), and code lookups. Rate-limit
// rows get a TTL index for storage hygiene; correctness does not depend on it.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "login", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "emailConfirmation.code", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "passwordRecovery.code", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return err
	}
	_, err = database.Collection(SessionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "deviceId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "deviceId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return err
	}
	_, err = database.Collection(RateLimitCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ip", Value: 1}, {Key: "url", Value: 1}, {Key: "date", Value: 1}}},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(3600),
		},
	})
	return err
}
