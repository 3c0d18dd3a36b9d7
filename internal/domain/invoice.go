package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvoiceStatus string

const (
	InvoicePaid      InvoiceStatus = "paid"
	InvoicePending   InvoiceStatus = "pending"
	InvoiceFailed    InvoiceStatus = "failed"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePaid, InvoicePending, InvoiceFailed, InvoiceCancelled:
		return true
	}
	return false
}

const DefaultCurrency = "USD"

// InvoiceItem is one billed line.
type InvoiceItem struct {
	Description string  `bson:"description" json:"description"`
	Amount      float64 `bson:"amount" json:"amount"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

// PaymentMethodRef is the part of a payment method shown next to an invoice.
type PaymentMethodRef struct {
	Type  PaymentType `bson:"type" json:"type"`
	Last4 string      `bson:"last4,omitempty" json:"last4,omitempty"`
	Email string      `bson:"email,omitempty" json:"email,omitempty"`
}

// Invoice is a simulated billing record owned by a user.
type Invoice struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	InvoiceNumber   string              `bson:"invoiceNumber" json:"invoiceNumber"` // Unique
	Amount          float64             `bson:"amount" json:"amount"`
	Currency        string              `bson:"currency" json:"currency"`
	Status          InvoiceStatus       `bson:"status" json:"status"`
	Plan            string              `bson:"plan" json:"plan"`
	Period          string              `bson:"period" json:"period"`
	DueDate         time.Time           `bson:"dueDate" json:"dueDate"`
	PaidDate        *time.Time          `bson:"paidDate,omitempty" json:"paidDate,omitempty"`
	PaymentMethodID *primitive.ObjectID `bson:"paymentMethodId,omitempty" json:"paymentMethodId,omitempty"`
	PaymentMethod   *PaymentMethodRef   `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"` // Joined on list, never stored
	Description     string              `bson:"description" json:"description"`
	Items           []InvoiceItem       `bson:"items" json:"items"`
	ArchiveKey      string              `bson:"archiveKey,omitempty" json:"-"` // Object key of the archived snapshot, if any
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
