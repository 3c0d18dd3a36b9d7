package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, email, role)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	args := m.Called(ctx, client)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	args := m.Called(ctx, email)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientRepository) GetByIDForCoach(ctx context.Context, id, coachID primitive.ObjectID) (*domain.Client, error) {
	args := m.Called(ctx, id, coachID)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientRepository) ListByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	args := m.Called(ctx, coachID)
	clients, _ := args.Get(0).([]domain.Client)
	return clients, args.Error(1)
}

func (m *MockClientRepository) UpdateForCoach(ctx context.Context, id, coachID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error) {
	args := m.Called(ctx, id, coachID, patch)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientRepository) DeleteForCoach(ctx context.Context, id, coachID primitive.ObjectID) error {
	args := m.Called(ctx, id, coachID)
	return args.Error(0)
}

func (m *MockClientRepository) UpdatePlanByEmail(ctx context.Context, email string, plan domain.Plan, revenue float64) (*domain.Client, error) {
	args := m.Called(ctx, email, plan, revenue)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientRepository) StatsForCoach(ctx context.Context, coachID primitive.ObjectID) (*domain.ClientStats, error) {
	args := m.Called(ctx, coachID)
	stats, _ := args.Get(0).(*domain.ClientStats)
	return stats, args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	args := m.Called(ctx, activity)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockActivityRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter domain.ActivityFilter) ([]domain.Activity, error) {
	args := m.Called(ctx, userID, filter)
	activities, _ := args.Get(0).([]domain.Activity)
	return activities, args.Error(1)
}

func (m *MockActivityRepository) CountByUser(ctx context.Context, userID primitive.ObjectID, activityType domain.ActivityType, since *time.Time) (int64, error) {
	args := m.Called(ctx, userID, activityType, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (primitive.ObjectID, error) {
	args := m.Called(ctx, invoice)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockInvoiceRepository) GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Invoice, error) {
	args := m.Called(ctx, id, userID)
	invoice, _ := args.Get(0).(*domain.Invoice)
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, status domain.InvoiceStatus, limit int64) ([]domain.Invoice, error) {
	args := m.Called(ctx, userID, status, limit)
	invoices, _ := args.Get(0).([]domain.Invoice)
	return invoices, args.Error(1)
}

func (m *MockInvoiceRepository) SetArchiveKey(ctx context.Context, id primitive.ObjectID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error {
	args := m.Called(ctx, objectKey, contentType, body)
	return args.Error(0)
}

func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

// inlineTx runs fn directly; the in-memory repositories need no isolation.
type inlineTx struct {
	calls int
}

func (tx *inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

// memPaymentMethods is an in-memory PaymentMethodRepository that refuses a
// second active default, as the partial unique index does.
type memPaymentMethods struct {
	methods []*domain.PaymentMethod
}

func (r *memPaymentMethods) Create(_ context.Context, pm *domain.PaymentMethod) (primitive.ObjectID, error) {
	if pm.IsDefault && pm.IsActive && r.defaultCount(pm.UserID) > 0 {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	cp := *pm
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = time.Now().Add(time.Duration(len(r.methods)) * time.Millisecond)
	r.methods = append(r.methods, &cp)
	return cp.ID, nil
}

func (r *memPaymentMethods) GetActiveByIDForUser(_ context.Context, id, userID primitive.ObjectID) (*domain.PaymentMethod, error) {
	for _, pm := range r.methods {
		if pm.ID == id && pm.UserID == userID && pm.IsActive {
			cp := *pm
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPaymentMethods) ListActiveByUser(_ context.Context, userID primitive.ObjectID) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	for _, pm := range r.methods {
		if pm.UserID == userID && pm.IsActive {
			out = append(out, *pm)
		}
	}
	return out, nil
}

func (r *memPaymentMethods) CountActiveByUser(_ context.Context, userID primitive.ObjectID, excludeID *primitive.ObjectID) (int64, error) {
	var n int64
	for _, pm := range r.methods {
		if pm.UserID == userID && pm.IsActive && (excludeID == nil || pm.ID != *excludeID) {
			n++
		}
	}
	return n, nil
}

func (r *memPaymentMethods) ClearDefault(_ context.Context, userID primitive.ObjectID, exceptID *primitive.ObjectID) error {
	for _, pm := range r.methods {
		if pm.UserID == userID && (exceptID == nil || pm.ID != *exceptID) {
			pm.IsDefault = false
		}
	}
	return nil
}

func (r *memPaymentMethods) MarkDefault(_ context.Context, id, userID primitive.ObjectID) error {
	for _, pm := range r.methods {
		if pm.ID == id && pm.UserID == userID && pm.IsActive {
			if !pm.IsDefault && r.defaultCount(userID) > 0 {
				return repository.ErrDuplicate
			}
			pm.IsDefault = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memPaymentMethods) Deactivate(_ context.Context, id, userID primitive.ObjectID) error {
	for _, pm := range r.methods {
		if pm.ID == id && pm.UserID == userID && pm.IsActive {
			pm.IsActive = false
			pm.IsDefault = false
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memPaymentMethods) defaultCount(userID primitive.ObjectID) int {
	n := 0
	for _, pm := range r.methods {
		if pm.UserID == userID && pm.IsActive && pm.IsDefault {
			n++
		}
	}
	return n
}

// memActivities is an in-memory ActivityRepository that just records writes.
type memActivities struct {
	created []domain.Activity
}

func (r *memActivities) Create(_ context.Context, a *domain.Activity) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	r.created = append(r.created, *a)
	return a.ID, nil
}

func (r *memActivities) ListByUser(_ context.Context, userID primitive.ObjectID, _ domain.ActivityFilter) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range r.created {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memActivities) CountByUser(_ context.Context, userID primitive.ObjectID, activityType domain.ActivityType, _ *time.Time) (int64, error) {
	var n int64
	for _, a := range r.created {
		if a.UserID == userID && (activityType == "" || a.Type == activityType) {
			n++
		}
	}
	return n, nil
}

func (r *memActivities) actions() []string {
	out := make([]string, 0, len(r.created))
	for _, a := range r.created {
		out = append(out, a.Action)
	}
	return out
}

func newCoach() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Coach Carter", Email: "carter@gym.io", Role: domain.RoleCoach}
}

func newMember() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Jane Doe", Email: "jane@example.com", Role: domain.RoleMember}
}
