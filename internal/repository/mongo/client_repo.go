package mongo

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository backed by MongoDB.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client. Email uniqueness is enforced by a unique index.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Email == "" || client.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client email and coach ID are required")
	}

	client.ID = primitive.NewObjectID()
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))
	now := time.Now().UTC()
	if client.JoinDate.IsZero() {
		client.JoinDate = now
	}
	if client.LastActive.IsZero() {
		client.LastActive = now
	}
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
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

// GetByEmail looks a client up across all coaches.
func (r *mongoClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetByIDForCoach returns the client only if it belongs to coachID.
func (r *mongoClientRepository) GetByIDForCoach(ctx context.Context, id, coachID primitive.ObjectID) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"_id": id, "coach": coachID})
}

// ListByCoach returns all clients of a coach, newest first.
func (r *mongoClientRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	clients := []domain.Client{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"coach": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// UpdateForCoach applies patch to a client owned by coachID and returns the
// updated document.
func (r *mongoClientRepository) UpdateForCoach(ctx context.Context, id, coachID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error) {
	set := clientPatchToSet(patch)
	set["updatedAt"] = time.Now().UTC()

	filter := bson.M{"_id": id, "coach": coachID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Client
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteForCoach removes a client owned by coachID.
func (r *mongoClientRepository) DeleteForCoach(ctx context.Context, id, coachID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coach": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePlanByEmail switches the plan of the client record matching email.
// Members reach their own membership through this, keyed by their login email.
func (r *mongoClientRepository) UpdatePlanByEmail(ctx context.Context, email string, plan domain.Plan, revenue float64) (*domain.Client, error) {
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	update := bson.M{"$set": bson.M{
		"plan":       plan,
		"revenue":    revenue,
		"lastActive": time.Now().UTC(),
		"updatedAt":  time.Now().UTC(),
	}}
	// Return the pre-image so the caller knows the previous plan.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before domain.Client
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &before, nil
}

// StatsForCoach counts the coach's clients by status and sums the revenue of
// active ones in a single aggregation.
func (r *mongoClientRepository) StatsForCoach(ctx context.Context, coachID primitive.ObjectID) (*domain.ClientStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"coach": coachID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"active": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.ClientActive}}, 1, 0},
			}},
			"pending": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.ClientPending}}, 1, 0},
			}},
			"revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.ClientActive}}, "$revenue", 0},
			}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total   int64   `bson:"total"`
		Active  int64   `bson:"active"`
		Pending int64   `bson:"pending"`
		Revenue float64 `bson:"revenue"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &domain.ClientStats{}
	if len(rows) > 0 {
		stats.Total = rows[0].Total
		stats.Active = rows[0].Active
		stats.Pending = rows[0].Pending
		stats.MonthlyRevenue = rows[0].Revenue
	}
	return stats, nil
}

func (r *mongoClientRepository) findOne(ctx context.Context, filter bson.M) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, filter).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// clientPatchToSet builds the $set document for a patch. The coach field is
// never part of it.
func clientPatchToSet(p domain.ClientPatch) bson.M {
	set := bson.M{}
	if p.FirstName != nil {
		set["firstName"] = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		set["lastName"] = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Phone != nil {
		set["phone"] = strings.TrimSpace(*p.Phone)
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Plan != nil {
		set["plan"] = *p.Plan
	}
	if p.Revenue != nil {
		set["revenue"] = *p.Revenue
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Goals != nil {
		set["goals"] = p.Goals
	}
	if p.Sessions != nil {
		set["sessions"] = *p.Sessions
	}
	if p.Progress != nil {
		set["progress"] = *p.Progress
	}
	return set
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "coach", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coach", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
