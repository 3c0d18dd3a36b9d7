package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType tags an activity record.
type ActivityType string

const (
	ActivityWorkout     ActivityType = "workout"
	ActivityPayment     ActivityType = "payment"
	ActivityAchievement ActivityType = "achievement"
	ActivityProfile     ActivityType = "profile"
	ActivityClient      ActivityType = "client"
	ActivityPlan        ActivityType = "plan"
	ActivitySession     ActivityType = "session"
	ActivityBooking     ActivityType = "booking"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityWorkout, ActivityPayment, ActivityAchievement, ActivityProfile,
		ActivityClient, ActivityPlan, ActivitySession, ActivityBooking:
		return true
	}
	return false
}

// Action strings written by the system itself.
const (
	ActionClientAdded          = "Client ajouté"
	ActionClientDeleted        = "Client supprimé"
	ActionPaymentMethodAdded   = "Méthode de paiement ajoutée"
	ActionPaymentMethodDeleted = "Méthode de paiement supprimée"
	ActionPaymentMethodDefault = "Méthode de paiement par défaut modifiée"
	ActionInvoiceDownloaded    = "Facture téléchargée"
	ActionPlanChanged          = "Plan modifié"
)

// ActivityMetadata is the optional bag attached to an activity.
type ActivityMetadata struct {
	Duration    string              `bson:"duration,omitempty" json:"duration,omitempty"`
	Amount      string              `bson:"amount,omitempty" json:"amount,omitempty"`
	Time        string              `bson:"time,omitempty" json:"time,omitempty"`
	Badge       string              `bson:"badge,omitempty" json:"badge,omitempty"`
	ClientID    *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	PlanFrom    string              `bson:"planFrom,omitempty" json:"planFrom,omitempty"`
	PlanTo      string              `bson:"planTo,omitempty" json:"planTo,omitempty"`
	SessionType string              `bson:"sessionType,omitempty" json:"sessionType,omitempty"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	Equipment   string              `bson:"equipment,omitempty" json:"equipment,omitempty"`
	PaymentType string              `bson:"paymentType,omitempty" json:"paymentType,omitempty"`
}

// Activity is an append-only audit record of something a user did.
// UserName and UserRole are copied at write time so the log survives later
// changes to the user.
type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	UserRole  Role               `bson:"userRole" json:"userRole"`
	Action    string             `bson:"action" json:"action"`
	Details   string             `bson:"details" json:"details"`
	Type      ActivityType       `bson:"type" json:"type"`
	Metadata  *ActivityMetadata  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Date      time.Time          `bson:"date" json:"date"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ActivityFilter narrows an activity listing. Zero values mean "no filter".
type ActivityFilter struct {
	Type   ActivityType
	Since  *time.Time
	Search string
	Limit  int64
}

// ActivityStats are the dashboard counters for a user's feed.
type ActivityStats struct {
	Total        int64 `json:"total"`
	Workouts     int64 `json:"workouts"`
	Achievements int64 `json:"achievements"`
	Today        int64 `json:"today"`
}
