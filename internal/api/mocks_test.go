package api

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/service"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (string, *domain.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, role domain.Role) (string, *domain.User, error) {
	args := m.Called(ctx, email, password, role)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) ParseToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)
	return claims, args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, claims *service.Claims) (*domain.User, error) {
	args := m.Called(ctx, claims)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) TokenTTL() time.Duration {
	return 7 * 24 * time.Hour
}

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) ListClients(ctx context.Context, coach *domain.User) ([]domain.Client, error) {
	args := m.Called(ctx, coach)
	clients, _ := args.Get(0).([]domain.Client)
	return clients, args.Error(1)
}

func (m *MockClientService) GetClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID) (*domain.Client, error) {
	args := m.Called(ctx, coach, clientID)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientService) CreateClient(ctx context.Context, coach *domain.User, in service.CreateClientInput) (*domain.Client, error) {
	args := m.Called(ctx, coach, in)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error) {
	args := m.Called(ctx, coach, clientID, patch)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID) error {
	args := m.Called(ctx, coach, clientID)
	return args.Error(0)
}

func (m *MockClientService) GetStats(ctx context.Context, coach *domain.User) (*domain.ClientStats, error) {
	args := m.Called(ctx, coach)
	stats, _ := args.Get(0).(*domain.ClientStats)
	return stats, args.Error(1)
}

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) List(ctx context.Context, user *domain.User, in service.ListActivitiesInput) ([]domain.Activity, *domain.ActivityStats, error) {
	args := m.Called(ctx, user, in)
	activities, _ := args.Get(0).([]domain.Activity)
	stats, _ := args.Get(1).(*domain.ActivityStats)
	return activities, stats, args.Error(2)
}

func (m *MockActivityService) Create(ctx context.Context, user *domain.User, in service.CreateActivityInput) (*domain.Activity, error) {
	args := m.Called(ctx, user, in)
	activity, _ := args.Get(0).(*domain.Activity)
	return activity, args.Error(1)
}

type MockPaymentMethodService struct {
	mock.Mock
}

func (m *MockPaymentMethodService) List(ctx context.Context, user *domain.User) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, user)
	methods, _ := args.Get(0).([]domain.PaymentMethod)
	return methods, args.Error(1)
}

func (m *MockPaymentMethodService) Get(ctx context.Context, user *domain.User, id primitive.ObjectID) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, user, id)
	pm, _ := args.Get(0).(*domain.PaymentMethod)
	return pm, args.Error(1)
}

func (m *MockPaymentMethodService) Add(ctx context.Context, user *domain.User, in service.AddPaymentMethodInput) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, user, in)
	pm, _ := args.Get(0).(*domain.PaymentMethod)
	return pm, args.Error(1)
}

func (m *MockPaymentMethodService) SetDefault(ctx context.Context, user *domain.User, id primitive.ObjectID) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, user, id)
	pm, _ := args.Get(0).(*domain.PaymentMethod)
	return pm, args.Error(1)
}

func (m *MockPaymentMethodService) Delete(ctx context.Context, user *domain.User, id primitive.ObjectID) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, user *domain.User, in service.CreateInvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, user, in)
	invoice, _ := args.Get(0).(*domain.Invoice)
	return invoice, args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, user *domain.User, status string, limit int64) ([]domain.Invoice, error) {
	args := m.Called(ctx, user, status, limit)
	invoices, _ := args.Get(0).([]domain.Invoice)
	return invoices, args.Error(1)
}

func (m *MockInvoiceService) Download(ctx context.Context, user *domain.User, id primitive.ObjectID) (*service.InvoiceDownload, error) {
	args := m.Called(ctx, user, id)
	dl, _ := args.Get(0).(*service.InvoiceDownload)
	return dl, args.Error(1)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) Get(ctx context.Context, member *domain.User) (*service.Membership, error) {
	args := m.Called(ctx, member)
	membership, _ := args.Get(0).(*service.Membership)
	return membership, args.Error(1)
}

func (m *MockMembershipService) ChangePlan(ctx context.Context, member *domain.User, plan domain.Plan) (*service.Membership, error) {
	args := m.Called(ctx, member, plan)
	membership, _ := args.Get(0).(*service.Membership)
	return membership, args.Error(1)
}
