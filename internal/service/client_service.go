package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/metrics"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientEmailTaken = errors.New("a client with this email already exists")
)

const (
	maxNameLength = 50
	minClientAge  = 16
	maxClientAge  = 100
)

var clientEmailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// CreateClientInput is what a coach submits to enroll a new client.
type CreateClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Plan      domain.Plan
	Phone     string
	Age       *int
	Goals     []string
}

// ClientService covers a coach's roster. Every method takes the acting coach
// and scopes storage access to the coach's own clients.
type ClientService interface {
	ListClients(ctx context.Context, coach *domain.User) ([]domain.Client, error)
	GetClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID) (*domain.Client, error)
	CreateClient(ctx context.Context, coach *domain.User, in CreateClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error)
	DeleteClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID) error
	GetStats(ctx context.Context, coach *domain.User) (*domain.ClientStats, error)
}

type clientService struct {
	clientRepo   repository.ClientRepository
	activityRepo repository.ActivityRepository
}

func NewClientService(clientRepo repository.ClientRepository, activityRepo repository.ActivityRepository) ClientService {
	return &clientService{
		clientRepo:   clientRepo,
		activityRepo: activityRepo,
	}
}

func (s *clientService) ListClients(ctx context.Context, coach *domain.User) ([]domain.Client, error) {
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}
	return s.clientRepo.ListByCoach(ctx, coach.ID)
}

func (s *clientService) GetClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID) (*domain.Client, error) {
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}
	client, err := s.clientRepo.GetByIDForCoach(ctx, clientID, coach.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	return client, err
}

// CreateClient enrolls a client under coach. Revenue comes from the plan
// price table and the status always starts as pending.
func (s *clientService) CreateClient(ctx context.Context, coach *domain.User, in CreateClientInput) (*domain.Client, error) {
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if firstName == "" || lastName == "" || email == "" || in.Plan == "" {
		return nil, invalidf("first name, last name, email and plan are required")
	}
	if err := validateClientFields(&firstName, &lastName, &email, &in.Plan, in.Age, nil, nil); err != nil {
		return nil, err
	}

	_, err := s.clientRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrClientEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	goals := in.Goals
	if len(goals) == 0 {
		goals = []string{domain.DefaultGoal}
	}

	client := &domain.Client{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Age:       in.Age,
		Plan:      in.Plan,
		Status:    domain.ClientPending,
		Revenue:   domain.PlanPrice(in.Plan),
		CoachID:   coach.ID,
		CoachName: coach.Name,
		Gym:       domain.DefaultGym,
		Goals:     goals,
	}

	id, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrClientEmailTaken
		}
		return nil, err
	}
	client.ID = id
	metrics.RecordClientCreated()

	_, err = recordActivity(ctx, s.activityRepo, coach, domain.ActionClientAdded,
		fmt.Sprintf("%s - Plan %s", client.FullName(), client.Plan),
		domain.ActivityClient,
		&domain.ActivityMetadata{ClientID: &client.ID, Amount: formatAmount(client.Revenue)})
	if err != nil {
		return nil, err
	}

	return client, nil
}

// UpdateClient patches a client the coach owns. A plan change re-derives revenue.
func (s *clientService) UpdateClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID, patch domain.ClientPatch) (*domain.Client, error) {
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}
	if patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) == "" {
		return nil, invalidf("first name cannot be empty")
	}
	if patch.LastName != nil && strings.TrimSpace(*patch.LastName) == "" {
		return nil, invalidf("last name cannot be empty")
	}
	if patch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &normalized
	}
	if err := validateClientFields(patch.FirstName, patch.LastName, patch.Email, patch.Plan, patch.Age, patch.Status, patch.Progress); err != nil {
		return nil, err
	}
	if patch.Sessions != nil && *patch.Sessions < 0 {
		return nil, invalidf("sessions cannot be negative")
	}
	if patch.Plan != nil {
		revenue := domain.PlanPrice(*patch.Plan)
		patch.Revenue = &revenue
	} else {
		patch.Revenue = nil
	}

	client, err := s.clientRepo.UpdateForCoach(ctx, clientID, coach.ID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrClientNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrClientEmailTaken
		}
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client the coach owns and logs it.
func (s *clientService) DeleteClient(ctx context.Context, coach *domain.User, clientID primitive.ObjectID) error {
	if !coach.IsCoach() {
		return ErrForbidden
	}

	client, err := s.clientRepo.GetByIDForCoach(ctx, clientID, coach.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	if err = s.clientRepo.DeleteForCoach(ctx, clientID, coach.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	_, err = recordActivity(ctx, s.activityRepo, coach, domain.ActionClientDeleted,
		client.FullName(), domain.ActivityClient,
		&domain.ActivityMetadata{ClientID: &client.ID})
	return err
}

// GetStats returns the coach's roster counters. The dashboard's "change"
// percentages are not computed here.
func (s *clientService) GetStats(ctx context.Context, coach *domain.User) (*domain.ClientStats, error) {
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}
	return s.clientRepo.StatsForCoach(ctx, coach.ID)
}

// ParseAge reads an age posted as text. An empty value means no age was given.
func ParseAge(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalidf("age must be a whole number")
	}
	return &age, nil
}

// validateClientFields checks the optional fields that are present.
func validateClientFields(firstName, lastName, email *string, plan *domain.Plan, age *int, status *domain.ClientStatus, progress *int) error {
	if firstName != nil && len([]rune(strings.TrimSpace(*firstName))) > maxNameLength {
		return invalidf("first name cannot exceed %d characters", maxNameLength)
	}
	if lastName != nil && len([]rune(strings.TrimSpace(*lastName))) > maxNameLength {
		return invalidf("last name cannot exceed %d characters", maxNameLength)
	}
	if email != nil && !clientEmailRegex.MatchString(*email) {
		return invalidf("please enter a valid email")
	}
	if plan != nil && !plan.Valid() {
		return invalidf("plan must be one of Basic, Premium or Pro")
	}
	if age != nil && (*age < minClientAge || *age > maxClientAge) {
		return invalidf("age must be between %d and %d", minClientAge, maxClientAge)
	}
	if status != nil && !status.Valid() {
		return invalidf("status must be one of active, inactive or pending")
	}
	if progress != nil && (*progress < 0 || *progress > 100) {
		return invalidf("progress must be between 0 and 100")
	}
	return nil
}
