package api

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	log            *zap.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, log *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, log: log}
}

type CreateInvoiceRequest struct {
	Amount          float64              `json:"amount"`
	Plan            string               `json:"plan"`
	Period          string               `json:"period"`
	Description     string               `json:"description"`
	Items           []domain.InvoiceItem `json:"items"`
	PaymentMethodID string               `json:"paymentMethodId"`
}

// InvoiceDownloadResponse is the printable subset of an invoice.
type InvoiceDownloadResponse struct {
	InvoiceNumber string               `json:"invoiceNumber"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Plan          string               `json:"plan"`
	Period        string               `json:"period"`
	Status        domain.InvoiceStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	DueDate       time.Time            `json:"dueDate"`
	Items         []domain.InvoiceItem `json:"items"`
}

// GetInvoices godoc
// @Summary My invoices, newest first
// @Tags Invoices
// @Produce json
// @Param status query string false "paid, pending, failed, cancelled or all"
// @Param limit query int false "Max items (default 20, max 100)"
// @Success 200 {array} domain.Invoice
// @Router /invoices [get]
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), user, c.Query("status"), queryLimit(c))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	respond(c, http.StatusOK, gin.H{"invoices": invoices})
}

// CreateInvoice godoc
// @Summary Issue an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice body CreateInvoiceRequest true "Invoice"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} gin.H "Invalid input"
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.CreateInvoiceInput{
		Amount:      req.Amount,
		Plan:        req.Plan,
		Period:      req.Period,
		Description: req.Description,
		Items:       req.Items,
	}
	if req.PaymentMethodID != "" {
		pmID, err := primitive.ObjectIDFromHex(req.PaymentMethodID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid paymentMethodId")
			return
		}
		in.PaymentMethodID = &pmID
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), user, in)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "invoice created", "invoice": invoice})
}

// DownloadInvoice godoc
// @Summary Download one of my invoices
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ObjectID Hex"
// @Success 200 {object} InvoiceDownloadResponse
// @Failure 404 {object} gin.H "Not found or not mine"
// @Router /invoices/{id}/download [get]
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", service.ErrInvoiceNotFound.Error())
	if !ok {
		return
	}

	dl, err := h.invoiceService.Download(c.Request.Context(), user, id)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	inv := dl.Invoice
	payload := gin.H{
		"message": "invoice download started",
		"invoice": InvoiceDownloadResponse{
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        inv.Amount,
			Currency:      inv.Currency,
			Plan:          inv.Plan,
			Period:        inv.Period,
			Status:        inv.Status,
			CreatedAt:     inv.CreatedAt,
			DueDate:       inv.DueDate,
			Items:         inv.Items,
		},
	}
	if dl.DownloadURL != "" {
		payload["downloadUrl"] = dl.DownloadURL
	}
	respond(c, http.StatusOK, payload)
}
