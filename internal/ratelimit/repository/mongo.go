package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"blogger-platform/internal/db"
	"blogger-platform/internal/ratelimit/domain"
)

type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository returns a rate-limit log backed by the rateLimit collection.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: database.Collection(db.RateLimitCollection)}
}

type recordDoc struct {
	IP   string    `bson:"ip"`
	URL  string    `bson:"url"`
	Date time.Time `bson:"date"`
}

// Insert appends one request record.
func (r *MongoRepository) Insert(ctx context.Context, rec *domain.Record) error {
	_, err := r.coll.InsertOne(ctx, &recordDoc{IP: rec.IP, URL: rec.URL, Date: rec.Date})
	return err
}

// Count returns the number of records for (ip, url) dated at or after since.
func (r *MongoRepository) Count(ctx context.Context, ip, url string, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"ip":   ip,
		"url":  url,
		"date": bson.M{"$gte": since},
	})
}

// DeleteAll wipes the rate-limit log. Admin/test reset only.
func (r *MongoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}
