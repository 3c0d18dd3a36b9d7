package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/metrics"
	"alcyxob/gym-dashboard/internal/repository"
	"alcyxob/gym-dashboard/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
)

const (
	invoiceDueIn        = 30 * 24 * time.Hour
	invoiceSuffixLength = 9
	invoiceArchivePath  = "invoices"
)

// CreateInvoiceInput is the billing form. Items default to a single line
// built from Description and Amount.
type CreateInvoiceInput struct {
	Amount          float64
	Plan            string
	Period          string
	Description     string
	Items           []domain.InvoiceItem
	PaymentMethodID *primitive.ObjectID
}

// InvoiceDownload is what a download returns. DownloadURL is empty when no
// object storage is configured.
type InvoiceDownload struct {
	Invoice     *domain.Invoice
	DownloadURL string
}

type InvoiceService interface {
	Create(ctx context.Context, user *domain.User, in CreateInvoiceInput) (*domain.Invoice, error)
	List(ctx context.Context, user *domain.User, status string, limit int64) ([]domain.Invoice, error)
	Download(ctx context.Context, user *domain.User, id primitive.ObjectID) (*InvoiceDownload, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	pmRepo       repository.PaymentMethodRepository
	activityRepo repository.ActivityRepository
	fileStorage  storage.FileStorage // nil when archiving is off
	log          *zap.Logger
	now          func() time.Time
	newSuffix    func() string
}

// NewInvoiceService creates the invoice service. fileStorage may be nil.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	pmRepo repository.PaymentMethodRepository,
	activityRepo repository.ActivityRepository,
	fileStorage storage.FileStorage,
	log *zap.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		pmRepo:       pmRepo,
		activityRepo: activityRepo,
		fileStorage:  fileStorage,
		log:          log,
		now:          time.Now,
		newSuffix:    randomInvoiceSuffix,
	}
}

// Create issues a pending invoice due in 30 days.
func (s *invoiceService) Create(ctx context.Context, user *domain.User, in CreateInvoiceInput) (*domain.Invoice, error) {
	plan := strings.TrimSpace(in.Plan)
	period := strings.TrimSpace(in.Period)
	description := strings.TrimSpace(in.Description)

	if in.Amount <= 0 || plan == "" || period == "" || description == "" {
		return nil, invalidf("amount, plan, period and description are required")
	}

	items := in.Items
	if len(items) == 0 {
		items = []domain.InvoiceItem{{Description: description, Amount: in.Amount, Quantity: 1}}
	}
	for i := range items {
		if strings.TrimSpace(items[i].Description) == "" {
			return nil, invalidf("item %d: description is required", i+1)
		}
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
		if items[i].Quantity < 1 {
			return nil, invalidf("item %d: quantity must be at least 1", i+1)
		}
	}

	if in.PaymentMethodID != nil {
		if _, err := s.pmRepo.GetActiveByIDForUser(ctx, *in.PaymentMethodID, user.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPaymentMethodNotFound
			}
			return nil, err
		}
	}

	now := s.now()
	invoice := &domain.Invoice{
		UserID:          user.ID,
		InvoiceNumber:   fmt.Sprintf("INV-%d-%s", now.UnixMilli(), s.newSuffix()),
		Amount:          in.Amount,
		Currency:        domain.DefaultCurrency,
		Status:          domain.InvoicePending,
		Plan:            plan,
		Period:          period,
		DueDate:         now.Add(invoiceDueIn),
		PaymentMethodID: in.PaymentMethodID,
		Description:     description,
		Items:           items,
	}

	id, err := s.invoiceRepo.Create(ctx, invoice)
	if err != nil {
		return nil, err
	}
	invoice.ID = id
	metrics.RecordInvoiceIssued(plan)
	return invoice, nil
}

// List returns the user's invoices newest first. status "all" or "" means
// no status filter.
func (s *invoiceService) List(ctx context.Context, user *domain.User, status string, limit int64) ([]domain.Invoice, error) {
	var filter domain.InvoiceStatus
	if status != "" && status != FilterAll {
		filter = domain.InvoiceStatus(status)
		if !filter.Valid() {
			return nil, invalidf("unknown invoice status %q", status)
		}
	}
	return s.invoiceRepo.ListByUser(ctx, user.ID, filter, normalizeLimit(limit))
}

// Download returns an owned invoice and logs the download. With object
// storage configured the JSON snapshot is archived and a presigned URL is
// attached. Archive failures are logged, not returned.
func (s *invoiceService) Download(ctx context.Context, user *domain.User, id primitive.ObjectID) (*InvoiceDownload, error) {
	invoice, err := s.invoiceRepo.GetByIDForUser(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	result := &InvoiceDownload{Invoice: invoice}
	if s.fileStorage != nil {
		url, err := s.archive(ctx, invoice)
		if err != nil {
			s.log.Warn("invoice archive failed",
				zap.String("invoiceNumber", invoice.InvoiceNumber),
				zap.Error(err))
		} else {
			result.DownloadURL = url
		}
	}

	_, err = recordActivity(ctx, s.activityRepo, user, domain.ActionInvoiceDownloaded,
		fmt.Sprintf("Facture %s - %s", invoice.InvoiceNumber, invoice.Plan), domain.ActivityPayment,
		&domain.ActivityMetadata{Amount: formatAmount(invoice.Amount)})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// archive uploads the snapshot once and presigns a GET for it.
func (s *invoiceService) archive(ctx context.Context, invoice *domain.Invoice) (string, error) {
	if invoice.ArchiveKey == "" {
		key := fmt.Sprintf("%s/%s/%s.json", invoiceArchivePath, invoice.UserID.Hex(), invoice.InvoiceNumber)
		body, err := json.Marshal(invoice)
		if err != nil {
			return "", err
		}
		if err = s.fileStorage.PutObject(ctx, key, "application/json", body); err != nil {
			return "", err
		}
		if err = s.invoiceRepo.SetArchiveKey(ctx, invoice.ID, key); err != nil {
			return "", err
		}
		invoice.ArchiveKey = key
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, invoice.ArchiveKey, storage.DefaultPresignedURLExpiry)
}

func randomInvoiceSuffix() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:invoiceSuffixLength]
}
