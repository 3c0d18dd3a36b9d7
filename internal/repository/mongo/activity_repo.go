package mongo

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollectionName = "activities"

// mongoActivityRepository implements repository.ActivityRepository
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository backed by MongoDB.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Create appends an activity record.
func (r *mongoActivityRepository) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.UserID == primitive.NilObjectID || activity.Action == "" || activity.Type == "" {
		return primitive.NilObjectID, errors.New("activity user ID, action and type are required")
	}

	activity.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if activity.Date.IsZero() {
		activity.Date = now
	}
	activity.CreatedAt = now

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// ListByUser returns a user's activities, newest first.
func (r *mongoActivityRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.ActivityFilter) ([]domain.Activity, error) {
	query := activityFilterDoc(userID, filter.Type, filter.Since)
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"action": pattern},
			bson.M{"details": pattern},
			bson.M{"userName": pattern},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	activities := []domain.Activity{}
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// CountByUser counts a user's activities, optionally narrowed by type and a
// lower date bound.
func (r *mongoActivityRepository) CountByUser(ctx context.Context, userID primitive.ObjectID, activityType domain.ActivityType, since *time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, activityFilterDoc(userID, activityType, since))
}

func activityFilterDoc(userID primitive.ObjectID, activityType domain.ActivityType, since *time.Time) bson.M {
	query := bson.M{"userId": userID}
	if activityType != "" {
		query["type"] = activityType
	}
	if since != nil {
		query["date"] = bson.M{"$gte": *since}
	}
	return query
}

// EnsureActivityIndexes creates necessary indexes for the activities collection.
func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "userRole", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "date", Value: -1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
