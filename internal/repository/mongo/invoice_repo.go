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

const invoiceCollectionName = "invoices"

// mongoInvoiceRepository implements repository.InvoiceRepository
type mongoInvoiceRepository struct {
	collection *mongo.Collection
}

// NewMongoInvoiceRepository creates a new Invoice repository backed by MongoDB.
func NewMongoInvoiceRepository(db *mongo.Database) repository.InvoiceRepository {
	return &mongoInvoiceRepository{
		collection: db.Collection(invoiceCollectionName),
	}
}

// Create inserts a new invoice. Invoice numbers are unique.
func (r *mongoInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (primitive.ObjectID, error) {
	if invoice.UserID == primitive.NilObjectID || invoice.InvoiceNumber == "" {
		return primitive.NilObjectID, errors.New("invoice user ID and number are required")
	}

	invoice.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, invoice)
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

// GetByIDForUser returns the invoice only if userID owns it.
func (r *mongoInvoiceRepository) GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// ListByUser returns a user's invoices newest first. An empty status means all.
// The referenced payment method, if any, is joined in as a short summary.
func (r *mongoInvoiceRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, status domain.InvoiceStatus, limit int64) ([]domain.Invoice, error) {
	match := bson.M{"userId": userID}
	if status != "" {
		match["status"] = status
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         paymentMethodCollectionName,
			"localField":   "paymentMethodId",
			"foreignField": "_id",
			"as":           "paymentMethod",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$paymentMethod",
			"preserveNullAndEmptyArrays": true,
		}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	invoices := []domain.Invoice{}
	if err = cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// SetArchiveKey records where the invoice snapshot was archived.
func (r *mongoInvoiceRepository) SetArchiveKey(ctx context.Context, id primitive.ObjectID, key string) error {
	update := bson.M{"$set": bson.M{"archiveKey": key, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureInvoiceIndexes creates necessary indexes for the invoices collection.
func EnsureInvoiceIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoiceNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
