package repositories

import (
	"context"
	"errors"
	"time"

	"madhav-couriers/internal/adapters/persistence/models"
	"madhav-couriers/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoAdminRepository implements AdminRepository on a mongo collection
type mongoAdminRepository struct {
	collection *mongo.Collection
}

// NewMongoAdminRepository creates a mongo admin repository and its indexes
func NewMongoAdminRepository(ctx context.Context, db *mongo.Database) (AdminRepository, error) {
	collection := db.Collection("admins")

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, wrapStoreError("create admin indexes", err)
	}

	return &mongoAdminRepository{collection: collection}, nil
}

func translateMongoAdminError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrAdminNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrAdminAlreadyExists
	}
	return wrapStoreError(op, err)
}

// Create inserts a new admin
func (r *mongoAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	_, err := r.collection.InsertOne(ctx, models.AdminDocumentFromDomain(admin))
	return translateMongoAdminError("create admin", err)
}

func (r *mongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*domain.Admin, error) {
	var doc models.AdminDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoAdminError("get admin", err)
	}
	return doc.ToDomain(), nil
}

// GetByID finds an admin by ID
func (r *mongoAdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername finds an admin by username
func (r *mongoAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// Update replaces an admin document
func (r *mongoAdminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": admin.ID}, models.AdminDocumentFromDomain(admin))
	if err != nil {
		return translateMongoAdminError("update admin", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

// UpdateLoginState writes the lockout bookkeeping fields
func (r *mongoAdminRepository) UpdateLoginState(ctx context.Context, id string, failedLogins int, lockedUntil, lastLogin *time.Time) error {
	set := bson.M{
		"login_attempts": failedLogins,
		"locked_until":   lockedUntil,
		"updated_at":     time.Now(),
	}
	if lastLogin != nil {
		set["last_login"] = lastLogin
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return translateMongoAdminError("update admin login state", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

// ClearExpiredLocks resets admins whose lockout has elapsed
func (r *mongoAdminRepository) ClearExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"locked_until": bson.M{"$ne": nil, "$lte": now}},
		bson.M{"$set": bson.M{"login_attempts": 0, "locked_until": nil}},
	)
	if err != nil {
		return 0, translateMongoAdminError("clear expired locks", err)
	}
	return res.ModifiedCount, nil
}

// Count returns the number of admins
func (r *mongoAdminRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return n, translateMongoAdminError("count admins", err)
}
