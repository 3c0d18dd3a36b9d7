package repository

import (
	"alcyxob/gym-dashboard/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner runs fn inside a database transaction. fn must use the context it
// is given for every repository call that belongs to the transaction.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ClientRepository defines the interface for client documents.
// Every coach-scoped method filters by coachID so a coach never reaches
// another coach's clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByIDForCoach(ctx context.Context, id, coachID primitive.ObjectID) (*domain.Client, error)
	ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error)
	UpdateForCoach(ctx context.Context, id, coachID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error)
	DeleteForCoach(ctx context.Context, id, coachID primitive.ObjectID) error
	UpdatePlanByEmail(ctx context.Context, email string, plan domain.Plan, revenue float64) (*domain.Client, error)
	StatsForCoach(ctx context.Context, coachID primitive.ObjectID) (*domain.ClientStats, error)
}

// ActivityRepository is append-only: there is no update or delete.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.ActivityFilter) ([]domain.Activity, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID, activityType domain.ActivityType, since *time.Time) (int64, error)
}

// InvoiceRepository defines the interface for invoice documents.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (primitive.ObjectID, error)
	GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, status domain.InvoiceStatus, limit int64) ([]domain.Invoice, error)
	SetArchiveKey(ctx context.Context, id primitive.ObjectID, key string) error
}

// PaymentMethodRepository defines the interface for stored payment methods.
type PaymentMethodRepository interface {
	Create(ctx context.Context, pm *domain.PaymentMethod) (primitive.ObjectID, error)
	GetActiveByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.PaymentMethod, error)
	ListActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PaymentMethod, error)
	CountActiveByUser(ctx context.Context, userID primitive.ObjectID, excludeID *primitive.ObjectID) (int64, error)
	ClearDefault(ctx context.Context, userID primitive.ObjectID, exceptID *primitive.ObjectID) error
	MarkDefault(ctx context.Context, id, userID primitive.ObjectID) error
	Deactivate(ctx context.Context, id, userID primitive.ObjectID) error
}
