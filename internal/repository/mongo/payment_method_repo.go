package mongo

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paymentMethodCollectionName = "payment_methods"

// mongoPaymentMethodRepository implements repository.PaymentMethodRepository
type mongoPaymentMethodRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentMethodRepository creates a new PaymentMethod repository backed by MongoDB.
func NewMongoPaymentMethodRepository(db *mongo.Database) repository.PaymentMethodRepository {
	return &mongoPaymentMethodRepository{
		collection: db.Collection(paymentMethodCollectionName),
	}
}

// Create inserts a new payment method. The partial unique index on default
// methods turns a second active default into a duplicate key error.
func (r *mongoPaymentMethodRepository) Create(ctx context.Context, pm *domain.PaymentMethod) (primitive.ObjectID, error) {
	if pm.UserID == primitive.NilObjectID || pm.Type == "" {
		return primitive.NilObjectID, errors.New("payment method user ID and type are required")
	}

	pm.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pm.CreatedAt = now
	pm.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pm)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetActiveByIDForUser returns an active method owned by userID.
func (r *mongoPaymentMethodRepository) GetActiveByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.PaymentMethod, error) {
	var pm domain.PaymentMethod
	filter := bson.M{"_id": id, "userId": userID, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&pm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pm, nil
}

// ListActiveByUser returns the default method first, then newest first.
func (r *mongoPaymentMethodRepository) ListActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PaymentMethod, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "isDefault", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "isActive": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	methods := []domain.PaymentMethod{}
	if err = cursor.All(ctx, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// CountActiveByUser counts active methods, optionally skipping excludeID.
func (r *mongoPaymentMethodRepository) CountActiveByUser(ctx context.Context, userID primitive.ObjectID, excludeID *primitive.ObjectID) (int64, error) {
	filter := bson.M{"userId": userID, "isActive": true}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	return r.collection.CountDocuments(ctx, filter)
}

// ClearDefault drops the default flag from every method of the user except
// exceptID (when given).
func (r *mongoPaymentMethodRepository) ClearDefault(ctx context.Context, userID primitive.ObjectID, exceptID *primitive.ObjectID) error {
	filter := bson.M{"userId": userID, "isDefault": true}
	if exceptID != nil {
		filter["_id"] = bson.M{"$ne": *exceptID}
	}
	update := bson.M{"$set": bson.M{"isDefault": false, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// MarkDefault flags an active method of the user as default.
func (r *mongoPaymentMethodRepository) MarkDefault(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID, "isActive": true}
	update := bson.M{"$set": bson.M{"isDefault": true, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a method. It also drops the default flag so an
// inactive method never counts as the user's default.
func (r *mongoPaymentMethodRepository) Deactivate(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID, "isActive": true}
	update := bson.M{"$set": bson.M{
		"isActive":  false,
		"isDefault": false,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePaymentMethodIndexes creates necessary indexes for the payment_methods
// collection, including the partial unique index that allows only one active
// default per user.
func EnsurePaymentMethodIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}}},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("one_default_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDefault": true, "isActive": true}),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
