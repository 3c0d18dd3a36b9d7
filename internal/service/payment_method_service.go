package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/metrics"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"errors"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Card numbers are 12 to 19 ASCII digits once spaces and dashes are removed.
const (
	minCardDigits = 12
	maxCardDigits = 19
)

// --- Error Definitions ---
var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrDefaultPaymentMethod  = errors.New("cannot remove the default payment method; set another method as default first")
)

// AddPaymentMethodInput is the raw form. Only the last four digits of
// CardNumber are ever stored.
type AddPaymentMethodInput struct {
	Type        domain.PaymentType
	Name        string
	CardNumber  string
	ExpiryMonth string
	ExpiryYear  string
	Email       string
}

// PaymentMethodService keeps the one-default-per-user invariant: add,
// set-default and delete each run in a single transaction.
type PaymentMethodService interface {
	List(ctx context.Context, user *domain.User) ([]domain.PaymentMethod, error)
	Get(ctx context.Context, user *domain.User, id primitive.ObjectID) (*domain.PaymentMethod, error)
	Add(ctx context.Context, user *domain.User, in AddPaymentMethodInput) (*domain.PaymentMethod, error)
	SetDefault(ctx context.Context, user *domain.User, id primitive.ObjectID) (*domain.PaymentMethod, error)
	Delete(ctx context.Context, user *domain.User, id primitive.ObjectID) error
}

type paymentMethodService struct {
	tx           repository.TxRunner
	pmRepo       repository.PaymentMethodRepository
	activityRepo repository.ActivityRepository
}

func NewPaymentMethodService(tx repository.TxRunner, pmRepo repository.PaymentMethodRepository, activityRepo repository.ActivityRepository) PaymentMethodService {
	return &paymentMethodService{
		tx:           tx,
		pmRepo:       pmRepo,
		activityRepo: activityRepo,
	}
}

func (s *paymentMethodService) List(ctx context.Context, user *domain.User) ([]domain.PaymentMethod, error) {
	return s.pmRepo.ListActiveByUser(ctx, user.ID)
}

func (s *paymentMethodService) Get(ctx context.Context, user *domain.User, id primitive.ObjectID) (*domain.PaymentMethod, error) {
	pm, err := s.pmRepo.GetActiveByIDForUser(ctx, id, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPaymentMethodNotFound
	}
	return pm, err
}

// Add stores a new method. The user's first active method becomes the default.
func (s *paymentMethodService) Add(ctx context.Context, user *domain.User, in AddPaymentMethodInput) (*domain.PaymentMethod, error) {
	pm, err := buildPaymentMethod(user.ID, in)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.pmRepo.CountActiveByUser(ctx, user.ID, nil)
		if err != nil {
			return err
		}
		pm.IsDefault = existing == 0
		if pm.IsDefault {
			// Normally a no-op; clears leftovers from soft-deleted methods.
			if err = s.pmRepo.ClearDefault(ctx, user.ID, nil); err != nil {
				return err
			}
		}

		id, err := s.pmRepo.Create(ctx, pm)
		if err != nil {
			return err
		}
		pm.ID = id

		_, err = recordActivity(ctx, s.activityRepo, user, domain.ActionPaymentMethodAdded,
			pm.Label(), domain.ActivityPayment,
			&domain.ActivityMetadata{PaymentType: string(pm.Type)})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentMethodAdded(string(pm.Type))
	return pm, nil
}

// SetDefault makes id the user's only default method.
func (s *paymentMethodService) SetDefault(ctx context.Context, user *domain.User, id primitive.ObjectID) (*domain.PaymentMethod, error) {
	var pm *domain.PaymentMethod
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		pm, err = s.pmRepo.GetActiveByIDForUser(ctx, id, user.ID)
		if err != nil {
			return err
		}
		if err = s.pmRepo.ClearDefault(ctx, user.ID, &id); err != nil {
			return err
		}
		if err = s.pmRepo.MarkDefault(ctx, id, user.ID); err != nil {
			return err
		}
		pm.IsDefault = true

		_, err = recordActivity(ctx, s.activityRepo, user, domain.ActionPaymentMethodDefault,
			pm.Label(), domain.ActivityPayment, nil)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return pm, nil
}

// Delete soft-deletes a method. The default can only go when it is the
// user's last active method.
func (s *paymentMethodService) Delete(ctx context.Context, user *domain.User, id primitive.ObjectID) error {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		pm, err := s.pmRepo.GetActiveByIDForUser(ctx, id, user.ID)
		if err != nil {
			return err
		}

		if pm.IsDefault {
			others, err := s.pmRepo.CountActiveByUser(ctx, user.ID, &id)
			if err != nil {
				return err
			}
			if others > 0 {
				return ErrDefaultPaymentMethod
			}
		}

		if err = s.pmRepo.Deactivate(ctx, id, user.ID); err != nil {
			return err
		}

		_, err = recordActivity(ctx, s.activityRepo, user, domain.ActionPaymentMethodDeleted,
			pm.Label(), domain.ActivityPayment, nil)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPaymentMethodNotFound
	}
	return err
}

// buildPaymentMethod validates the form for its type and keeps only what may
// be stored.
func buildPaymentMethod(userID primitive.ObjectID, in AddPaymentMethodInput) (*domain.PaymentMethod, error) {
	name := strings.TrimSpace(in.Name)
	if in.Type == "" || name == "" {
		return nil, invalidf("type and name are required")
	}
	if !in.Type.Valid() {
		return nil, invalidf("unknown payment type %q", in.Type)
	}

	pm := &domain.PaymentMethod{
		UserID:   userID,
		Type:     in.Type,
		Name:     name,
		IsActive: true,
	}

	if !in.Type.IsCard() {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if email == "" {
			return nil, invalidf("PayPal email is required")
		}
		if !accountEmailRegex.MatchString(email) {
			return nil, invalidf("invalid PayPal email")
		}
		pm.Email = email
		return pm, nil
	}

	if in.CardNumber == "" || in.ExpiryMonth == "" || in.ExpiryYear == "" {
		return nil, invalidf("card number and expiry date are required")
	}
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, in.CardNumber)
	if len(digits) < minCardDigits || len(digits) > maxCardDigits ||
		strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return nil, invalidf("invalid card number")
	}
	month, err := strconv.Atoi(strings.TrimSpace(in.ExpiryMonth))
	if err != nil || month < 1 || month > 12 {
		return nil, invalidf("invalid expiry month")
	}
	year := strings.TrimSpace(in.ExpiryYear)
	if _, err := strconv.Atoi(year); err != nil || (len(year) != 2 && len(year) != 4) {
		return nil, invalidf("invalid expiry year")
	}

	pm.Last4 = digits[len(digits)-4:]
	pm.ExpiryMonth = strconv.Itoa(month)
	if month < 10 {
		pm.ExpiryMonth = "0" + pm.ExpiryMonth
	}
	pm.ExpiryYear = year
	return pm, nil
}
