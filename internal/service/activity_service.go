package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// FilterAll disables a status, type or date filter.
const FilterAll = "all"

// Date buckets accepted by the activity feed.
const (
	DateToday = "today"
	DateWeek  = "week"
	DateMonth = "month"
)

// ListActivitiesInput mirrors the feed's query string.
type ListActivitiesInput struct {
	Type   string
	Date   string
	Search string
	Limit  int64
}

// CreateActivityInput is a user-submitted activity.
type CreateActivityInput struct {
	Action   string
	Details  string
	Type     domain.ActivityType
	Metadata *domain.ActivityMetadata
}

type ActivityService interface {
	List(ctx context.Context, user *domain.User, in ListActivitiesInput) ([]domain.Activity, *domain.ActivityStats, error)
	Create(ctx context.Context, user *domain.User, in CreateActivityInput) (*domain.Activity, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	now          func() time.Time
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo, now: time.Now}
}

// List returns the caller's feed plus the dashboard counters. Counters are
// computed on every call.
func (s *activityService) List(ctx context.Context, user *domain.User, in ListActivitiesInput) ([]domain.Activity, *domain.ActivityStats, error) {
	filter := domain.ActivityFilter{
		Search: strings.TrimSpace(in.Search),
		Limit:  normalizeLimit(in.Limit),
	}

	if in.Type != "" && in.Type != FilterAll {
		t := domain.ActivityType(in.Type)
		if !t.Valid() {
			return nil, nil, invalidf("unknown activity type %q", in.Type)
		}
		filter.Type = t
	}

	if in.Date != "" && in.Date != FilterAll {
		since, ok := s.bucketStart(in.Date)
		if !ok {
			return nil, nil, invalidf("unknown date filter %q", in.Date)
		}
		filter.Since = &since
	}

	activities, err := s.activityRepo.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.stats(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return activities, stats, nil
}

// Create appends a user-submitted activity.
func (s *activityService) Create(ctx context.Context, user *domain.User, in CreateActivityInput) (*domain.Activity, error) {
	action := strings.TrimSpace(in.Action)
	details := strings.TrimSpace(in.Details)
	if action == "" || details == "" || in.Type == "" {
		return nil, invalidf("action, details and type are required")
	}
	if !in.Type.Valid() {
		return nil, invalidf("unknown activity type %q", in.Type)
	}
	return recordActivity(ctx, s.activityRepo, user, action, details, in.Type, in.Metadata)
}

func (s *activityService) stats(ctx context.Context, userID primitive.ObjectID) (*domain.ActivityStats, error) {
	var (
		stats domain.ActivityStats
		err   error
	)
	if stats.Total, err = s.activityRepo.CountByUser(ctx, userID, "", nil); err != nil {
		return nil, err
	}
	if stats.Workouts, err = s.activityRepo.CountByUser(ctx, userID, domain.ActivityWorkout, nil); err != nil {
		return nil, err
	}
	if stats.Achievements, err = s.activityRepo.CountByUser(ctx, userID, domain.ActivityAchievement, nil); err != nil {
		return nil, err
	}
	midnight := startOfDay(s.now())
	if stats.Today, err = s.activityRepo.CountByUser(ctx, userID, "", &midnight); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *activityService) bucketStart(bucket string) (time.Time, bool) {
	now := s.now()
	switch bucket {
	case DateToday:
		return startOfDay(now), true
	case DateWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case DateMonth:
		return now.Add(-30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func normalizeLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// recordActivity appends one activity on behalf of user. Name and role are
// copied from the stored user so the entry survives later profile changes.
func recordActivity(ctx context.Context, repo repository.ActivityRepository, user *domain.User, action, details string, activityType domain.ActivityType, metadata *domain.ActivityMetadata) (*domain.Activity, error) {
	activity := &domain.Activity{
		UserID:   user.ID,
		UserName: user.Name,
		UserRole: user.Role,
		Action:   action,
		Details:  details,
		Type:     activityType,
		Metadata: metadata,
	}
	id, err := repo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}
	activity.ID = id
	return activity, nil
}

// formatAmount renders a price the way the activity feed shows it, e.g. "$29.99".
func formatAmount(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
