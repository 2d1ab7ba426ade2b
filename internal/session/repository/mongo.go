package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"blogger-platform/internal/db"
	"blogger-platform/internal/session/domain"
)

type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository returns a session repository backed by the sessions collection.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: database.Collection(db.SessionsCollection)}
}

// sessionDoc is the Mongo document shape for a device session.
type sessionDoc struct {
	UserID     string    `bson:"userId"`
	DeviceID   string    `bson:"deviceId"`
	DeviceName string    `bson:"deviceName"`
	IP         string    `bson:"ip"`
	RefreshJTI string    `bson:"refreshJti"`
	IssuedAt   time.Time `bson:"iat"`
	ExpiresAt  time.Time `bson:"exp"`
}

// Get returns the session for (userID, deviceID), or nil if not found.
// It returns an error only for database failures, not for missing documents.
func (r *MongoRepository) Get(ctx context.Context, userID, deviceID string) (*domain.Session, error) {
	var doc sessionDoc
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "deviceId": deviceID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return docToDomain(&doc), nil
}

// GetByDeviceID returns the session for deviceID regardless of owner, or nil if not found.
func (r *MongoRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.Session, error) {
	var doc sessionDoc
	err := r.coll.FindOne(ctx, bson.M{"deviceId": deviceID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return docToDomain(&doc), nil
}

// ListByUser returns all sessions for the user, for the devices view.
func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domain.Session
	for cur.Next(ctx) {
		var doc sessionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, docToDomain(&doc))
	}
	return out, cur.Err()
}

// Create inserts a new session row. The caller has already generated a fresh
// deviceID; the unique (userId, deviceId) index rejects duplicates.
func (r *MongoRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.coll.InsertOne(ctx, &sessionDoc{
		UserID:     s.UserID,
		DeviceID:   s.DeviceID,
		DeviceName: s.DeviceName,
		IP:         s.IP,
		RefreshJTI: s.RefreshJTI,
		IssuedAt:   s.IssuedAt,
		ExpiresAt:  s.ExpiresAt,
	})
	return err
}

// UpdateIfCurrent rotates jti/iat/exp/ip in place, conditional on the stored
// refresh jti. A zero modified count means a concurrent rotation already
// superseded the caller's token; the caller must fail the refresh.
func (r *MongoRepository) UpdateIfCurrent(ctx context.Context, userID, deviceID, prevJTI, jti string, issuedAt, expiresAt time.Time, ip string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "deviceId": deviceID, "refreshJti": prevJTI},
		bson.M{"$set": bson.M{"refreshJti": jti, "iat": issuedAt, "exp": expiresAt, "ip": ip}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Delete removes the session for (userID, deviceID); reports whether a row was deleted.
func (r *MongoRepository) Delete(ctx context.Context, userID, deviceID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "deviceId": deviceID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// DeleteAllExcept removes every session of the user except currentDeviceID.
func (r *MongoRepository) DeleteAllExcept(ctx context.Context, userID, currentDeviceID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{
		"userId":   userID,
		"deviceId": bson.M{"$ne": currentDeviceID},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAllByUser removes every session of the user.
func (r *MongoRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// DeleteAll wipes the sessions collection. Admin/test reset only.
func (r *MongoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func docToDomain(d *sessionDoc) *domain.Session {
	return &domain.Session{
		UserID:     d.UserID,
		DeviceID:   d.DeviceID,
		DeviceName: d.DeviceName,
		IP:         d.IP,
		RefreshJTI: d.RefreshJTI,
		IssuedAt:   d.IssuedAt,
		ExpiresAt:  d.ExpiresAt,
	}
}
