package mongo

import (
	"alcyxob/gym-dashboard/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// mongoTxRunner runs callbacks inside a multi-document transaction.
// Transactions need a replica set or sharded cluster; a standalone mongod
// rejects them.
type mongoTxRunner struct {
	client *mongo.Client
}

// NewTxRunner creates a repository.TxRunner bound to the client of db.
func NewTxRunner(db *mongo.Database) repository.TxRunner {
	return &mongoTxRunner{client: db.Client()}
}

func (r *mongoTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	}, txnOpts)
	return err
}
