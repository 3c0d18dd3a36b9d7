package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientStatus tracks where a client is in their membership lifecycle.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientPending  ClientStatus = "pending"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientInactive, ClientPending:
		return true
	}
	return false
}

const (
	DefaultGym  = "FitGym Center"
	DefaultGoal = "Fitness"
)

// Client is a gym member managed by exactly one coach.
type Client struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Email      string             `bson:"email" json:"email"` // Unique across all clients, not per coach
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Age        *int               `bson:"age,omitempty" json:"age,omitempty"`
	Plan       Plan               `bson:"plan" json:"plan"`
	Status     ClientStatus       `bson:"status" json:"status"`
	JoinDate   time.Time          `bson:"joinDate" json:"joinDate"`
	LastActive time.Time          `bson:"lastActive" json:"lastActive"`
	Revenue    float64            `bson:"revenue" json:"revenue"` // Derived from Plan
	CoachID    primitive.ObjectID `bson:"coach" json:"coach"`     // Owning coach
	CoachName  string             `bson:"coachName" json:"coachName"`
	Gym        string             `bson:"gym" json:"gym"`
	Goals      []string           `bson:"goals" json:"goals"`
	Sessions   int                `bson:"sessions" json:"sessions"`
	Progress   int                `bson:"progress" json:"progress"` // 0..100
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FullName returns "First Last".
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ClientPatch carries the fields a coach may change on an existing client.
// Nil fields are left untouched.
type ClientPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Age       *int
	Plan      *Plan
	Status    *ClientStatus
	Goals     []string
	Sessions  *int
	Progress  *int
	Revenue   *float64 // Set by the service whenever Plan changes
}

// ClientStats holds the per-coach dashboard counters.
type ClientStats struct {
	Total          int64
	Active         int64
	Pending        int64
	MonthlyRevenue float64
}
