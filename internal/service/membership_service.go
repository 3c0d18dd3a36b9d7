package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"
)

// --- Error Definitions ---
var (
	ErrMembershipNotFound = errors.New("no membership found for this account")
)

// Membership is a member's view of the client record a coach keeps for them.
type Membership struct {
	Plan         domain.Plan         `json:"plan"`
	Status       domain.ClientStatus `json:"status"`
	MonthlyPrice float64             `json:"monthlyPrice"`
	CoachName    string              `json:"coachName"`
	Gym          string              `json:"gym"`
	JoinDate     time.Time           `json:"joinDate"`
}

// MembershipService lets a member read and change their plan. The member is
// matched to a client record by email.
type MembershipService interface {
	Get(ctx context.Context, member *domain.User) (*Membership, error)
	ChangePlan(ctx context.Context, member *domain.User, plan domain.Plan) (*Membership, error)
}

type membershipService struct {
	clientRepo   repository.ClientRepository
	activityRepo repository.ActivityRepository
}

func NewMembershipService(clientRepo repository.ClientRepository, activityRepo repository.ActivityRepository) MembershipService {
	return &membershipService{
		clientRepo:   clientRepo,
		activityRepo: activityRepo,
	}
}

func (s *membershipService) Get(ctx context.Context, member *domain.User) (*Membership, error) {
	if !member.IsMember() {
		return nil, ErrForbidden
	}
	client, err := s.clientRepo.GetByEmail(ctx, member.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return membershipOf(client), nil
}

// ChangePlan switches the member's plan and re-derives revenue. Choosing the
// current plan is a no-op and logs nothing.
func (s *membershipService) ChangePlan(ctx context.Context, member *domain.User, plan domain.Plan) (*Membership, error) {
	if !member.IsMember() {
		return nil, ErrForbidden
	}
	if !plan.Valid() {
		return nil, invalidf("plan must be one of Basic, Premium or Pro")
	}

	price := domain.PlanPrice(plan)
	before, err := s.clientRepo.UpdatePlanByEmail(ctx, member.Email, plan, price)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}

	after := membershipOf(before)
	after.Plan = plan
	after.MonthlyPrice = price
	if before.Plan == plan {
		return after, nil
	}

	_, err = recordActivity(ctx, s.activityRepo, member, domain.ActionPlanChanged,
		fmt.Sprintf("%s → %s", before.Plan, plan), domain.ActivityPlan,
		&domain.ActivityMetadata{
			PlanFrom: string(before.Plan),
			PlanTo:   string(plan),
			Amount:   formatAmount(price),
		})
	if err != nil {
		return nil, err
	}
	return after, nil
}

func membershipOf(c *domain.Client) *Membership {
	return &Membership{
		Plan:         c.Plan,
		Status:       c.Status,
		MonthlyPrice: domain.PlanPrice(c.Plan),
		CoachName:    c.CoachName,
		Gym:          c.Gym,
		JoinDate:     c.JoinDate,
	}
}
