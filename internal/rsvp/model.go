package rsvp

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// RSVP statuses. Pending and approved both hold a capacity slot.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// Guest categories
const (
	CategoryMen     = "men"
	CategoryWomen   = "women"
	CategoryCouples = "couples"
)

// RSVP represents the rsvps table: one row per (event, user) pair. Rows
// are never deleted; status moves pending -> approved/declined one way,
// and the check-in token is consumed at most once.
type RSVP struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	EventSlug    string         `gorm:"size:120;not null;uniqueIndex:idx_event_user,priority:1" json:"event_slug"`
	UserID       uint           `gorm:"not null;uniqueIndex:idx_event_user,priority:2" json:"user_id"`
	UserEmail    string         `gorm:"size:255;not null" json:"user_email"`
	DisplayName  string         `gorm:"size:120" json:"display_name"`
	Category     string         `gorm:"size:20;not null" json:"category"`
	Status       string         `gorm:"size:20;not null;default:'pending'" json:"status"`
	TrustBadges  datatypes.JSON `gorm:"type:jsonb" json:"trust_badges"` // copied from the profile at submission, immutable
	CheckinToken string         `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ConsumedAt   *time.Time     `json:"consumed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

func IsValidCategory(c string) bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryCouples:
		return true
	}
	return false
}

// Requester identifies the member submitting or checking in
type Requester struct {
	UserID      uint
	Email       string
	DisplayName string
	TrustBadges []string
}

// Reviewer identifies who is moderating a pending RSVP
type Reviewer struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

// SubmitResult reports the outcome of a submission. Resubmission is not
// an error: Created is false and the existing record is returned.
type SubmitResult struct {
	RSVP    *RSVP `json:"rsvp"`
	Created bool  `json:"created"`
}

// Message is the lifecycle record published to the event stream and
// consumed by the notification fan-out
type Message struct {
	Type       string    `json:"type"` // rsvp.submitted / rsvp.approved / rsvp.declined / rsvp.checkedin
	EventSlug  string    `json:"event_slug"`
	EventTitle string    `json:"event_title"`
	RSVPID     uint      `json:"rsvp_id"`
	UserID     uint      `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	HostEmail  string    `json:"host_email"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

// Badges decodes the frozen trust badge copy
func (r *RSVP) Badges() []string {
	var badges []string
	if len(r.TrustBadges) > 0 {
		_ = json.Unmarshal(r.TrustBadges, &badges)
	}
	return badges
}

func encodeBadges(badges []string) datatypes.JSON {
	if badges == nil {
		badges = []string{}
	}
	raw, _ := json.Marshal(badges)
	return datatypes.JSON(raw)
}
