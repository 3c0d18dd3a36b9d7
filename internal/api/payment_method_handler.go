package api

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentMethodHandler struct {
	paymentMethodService service.PaymentMethodService
	log                  *zap.Logger
}

func NewPaymentMethodHandler(paymentMethodService service.PaymentMethodService, log *zap.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{paymentMethodService: paymentMethodService, log: log}
}

type AddPaymentMethodRequest struct {
	Type        domain.PaymentType `json:"type"`
	Name        string             `json:"name"`
	CardNumber  string             `json:"cardNumber"`
	ExpiryMonth string             `json:"expiryMonth"`
	ExpiryYear  string             `json:"expiryYear"`
	Email       string             `json:"email"`
}

type UpdatePaymentMethodRequest struct {
	SetAsDefault bool `json:"setAsDefault"`
}

// GetPaymentMethods godoc
// @Summary My active payment methods, default first
// @Tags PaymentMethods
// @Produce json
// @Success 200 {array} domain.PaymentMethod
// @Router /payment-methods [get]
func (h *PaymentMethodHandler) GetPaymentMethods(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	methods, err := h.paymentMethodService.List(c.Request.Context(), user)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	if methods == nil {
		methods = []domain.PaymentMethod{}
	}
	respond(c, http.StatusOK, gin.H{"paymentMethods": methods})
}

// AddPaymentMethod godoc
// @Summary Store a card or PayPal account
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param method body AddPaymentMethodRequest true "Payment method"
// @Success 201 {object} domain.PaymentMethod
// @Failure 400 {object} gin.H "Invalid input"
// @Router /payment-methods [post]
func (h *PaymentMethodHandler) AddPaymentMethod(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req AddPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	pm, err := h.paymentMethodService.Add(c.Request.Context(), user, service.AddPaymentMethodInput{
		Type:        req.Type,
		Name:        req.Name,
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Email:       req.Email,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "payment method added", "paymentMethod": pm})
}

// UpdatePaymentMethod godoc
// @Summary Make a payment method the default
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param id path string true "PaymentMethod ObjectID Hex"
// @Param body body UpdatePaymentMethodRequest true "setAsDefault"
// @Success 200 {object} domain.PaymentMethod
// @Failure 404 {object} gin.H "Not found or not mine"
// @Router /payment-methods/{id} [put]
func (h *PaymentMethodHandler) UpdatePaymentMethod(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", service.ErrPaymentMethodNotFound.Error())
	if !ok {
		return
	}
	var req UpdatePaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		pm  *domain.PaymentMethod
		err error
	)
	if req.SetAsDefault {
		pm, err = h.paymentMethodService.SetDefault(c.Request.Context(), user, id)
	} else {
		pm, err = h.paymentMethodService.Get(c.Request.Context(), user, id)
	}
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "payment method updated", "paymentMethod": pm})
}

// DeletePaymentMethod godoc
// @Summary Remove a payment method
// @Tags PaymentMethods
// @Param id path string true "PaymentMethod ObjectID Hex"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Not found or not mine"
// @Failure 409 {object} gin.H "Default method while others exist"
// @Router /payment-methods/{id} [delete]
func (h *PaymentMethodHandler) DeletePaymentMethod(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id", service.ErrPaymentMethodNotFound.Error())
	if !ok {
		return
	}

	if err := h.paymentMethodService.Delete(c.Request.Context(), user, id); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "payment method deleted"})
}
