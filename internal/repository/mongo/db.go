package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Connect succeeds lazily, so ping the primary to make sure the server answers.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection used by the app.
// Failures are returned per collection so the caller can log them.
func EnsureIndexes(ctx context.Context, db *mongo.Database) map[string]error {
	errs := make(map[string]error)
	ensure := func(name string, fn func(context.Context, *mongo.Collection) error) {
		if err := fn(ctx, db.Collection(name)); err != nil {
			errs[name] = err
		}
	}
	ensure(userCollectionName, EnsureUserIndexes)
	ensure(clientCollectionName, EnsureClientIndexes)
	ensure(activityCollectionName, EnsureActivityIndexes)
	ensure(invoiceCollectionName, EnsureInvoiceIndexes)
	ensure(paymentMethodCollectionName, EnsurePaymentMethodIndexes)
	return errs
}
