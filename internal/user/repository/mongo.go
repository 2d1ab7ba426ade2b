package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"blogger-platform/internal/db"
	"blogger-platform/internal/user/domain"
)

type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository returns a user repository backed by the users collection.
func NewMongoRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: database.Collection(db.UsersCollection)}
}

// userDoc is the Mongo document shape for a user account.
type userDoc struct {
	ID           string          `bson:"_id"`
	Login        string          `bson:"login"`
	Email        string          `bson:"email"`
	PasswordHash string          `bson:"passwordHash"`
	CreatedAt    time.Time       `bson:"createdAt"`
	Confirmation confirmationDoc `bson:"emailConfirmation"`
	Recovery     recoveryDoc     `bson:"passwordRecovery"`
}

type confirmationDoc struct {
	Code      string     `bson:"code,omitempty"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
	Status    string     `bson:"status"`
}

type recoveryDoc struct {
	Code      string     `bson:"code,omitempty"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing documents.
func (r *MongoRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByLogin returns the user with the given login, or nil if not found.
func (r *MongoRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"login": login})
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByLoginOrEmail returns the user whose login or email matches, or nil if not found.
func (r *MongoRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"login": loginOrEmail},
		bson.M{"email": loginOrEmail},
	}})
}

// GetByConfirmationCode returns the user holding the given confirmation code, or nil.
func (r *MongoRepository) GetByConfirmationCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"emailConfirmation.code": code})
}

// GetByRecoveryCode returns the user holding the given recovery code, or nil.
func (r *MongoRepository) GetByRecoveryCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"passwordRecovery.code": code})
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *MongoRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.coll.InsertOne(ctx, domainToDoc(u))
	return err
}

// Confirm marks the account confirmed and consumes the confirmation code.
func (r *MongoRepository) Confirm(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"emailConfirmation.status": string(domain.Confirmed)},
		"$unset": bson.M{"emailConfirmation.code": "", "emailConfirmation.expiresAt": ""},
	})
	return err
}

// SetConfirmationCode replaces the confirmation code and its expiry.
func (r *MongoRepository) SetConfirmationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"emailConfirmation.code": code, "emailConfirmation.expiresAt": expiresAt},
	})
	return err
}

// SetRecoveryCode replaces the password-recovery code and its expiry.
func (r *MongoRepository) SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"passwordRecovery.code": code, "passwordRecovery.expiresAt": expiresAt},
	})
	return err
}

// UpdatePassword stores the new password hash and consumes the recovery code.
func (r *MongoRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"passwordHash": passwordHash},
		"$unset": bson.M{"passwordRecovery.code": "", "passwordRecovery.expiresAt": ""},
	})
	return err
}

// DeleteAll wipes the users collection. Admin/test reset only.
func (r *MongoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return docToDomain(&doc), nil
}

func domainToDoc(u *domain.User) *userDoc {
	return &userDoc{
		ID:           u.ID,
		Login:        u.Login,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		Confirmation: confirmationDoc{
			Code:      u.Confirmation.Code,
			ExpiresAt: timeToPtr(u.Confirmation.ExpiresAt),
			Status:    string(u.Confirmation.Status),
		},
		Recovery: recoveryDoc{
			Code:      u.Recovery.Code,
			ExpiresAt: timeToPtr(u.Recovery.ExpiresAt),
		},
	}
}

func docToDomain(d *userDoc) *domain.User {
	return &domain.User{
		ID:           d.ID,
		Login:        d.Login,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		Confirmation: domain.EmailConfirmation{
			Code:      d.Confirmation.Code,
			ExpiresAt: ptrToTime(d.Confirmation.ExpiresAt),
			Status:    domain.ConfirmationStatus(d.Confirmation.Status),
		},
		Recovery: domain.PasswordRecovery{
			Code:      d.Recovery.Code,
			ExpiresAt: ptrToTime(d.Recovery.ExpiresAt),
		},
	}
}

func timeToPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func ptrToTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
