package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentType string

const (
	PaymentVisa       PaymentType = "visa"
	PaymentMastercard PaymentType = "mastercard"
	PaymentAmex       PaymentType = "amex"
	PaymentPayPal     PaymentType = "paypal"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentVisa, PaymentMastercard, PaymentAmex, PaymentPayPal:
		return true
	}
	return false
}

// IsCard reports whether the type is a card (everything but PayPal).
func (t PaymentType) IsCard() bool {
	return t != PaymentPayPal
}

// PaymentMethod is a stored payment instrument. Only the last four digits of
// a card are ever kept. At most one active method per user is the default.
type PaymentMethod struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Type        PaymentType        `bson:"type" json:"type"`
	Last4       string             `bson:"last4,omitempty" json:"last4,omitempty"`
	ExpiryMonth string             `bson:"expiryMonth,omitempty" json:"expiryMonth,omitempty"`
	ExpiryYear  string             `bson:"expiryYear,omitempty" json:"expiryYear,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	IsDefault   bool               `bson:"isDefault" json:"isDefault"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Label renders the method the way it shows up in the activity feed,
// e.g. "Visa •••• 4242" or "Paypal jane@example.com".
func (pm *PaymentMethod) Label() string {
	t := string(pm.Type)
	if t != "" {
		t = strings.ToUpper(t[:1]) + t[1:]
	}
	if pm.Last4 != "" {
		return t + " •••• " + pm.Last4
	}
	return t + " " + pm.Email
}
