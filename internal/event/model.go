package event

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Privacy tiers control address disclosure and who may RSVP
const (
	TierPublic  = "public"
	TierVetted  = "vetted"
	TierPrivate = "private"
)

// Event represents the events table
type Event struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Slug          string         `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Date          string         `gorm:"size:10;not null" json:"date"` // ISO date, e.g. 2026-09-12
	City          string         `gorm:"size:120" json:"city"`
	Address       string         `gorm:"size:500" json:"address,omitempty"`
	Lat           *float64       `json:"lat,omitempty"`
	Lng           *float64       `json:"lng,omitempty"`
	PrivacyTier   string         `gorm:"size:20;not null;default:'public'" json:"privacy_tier"`
	HostName      string         `gorm:"size:120" json:"host_name"`
	HostEmail     string         `gorm:"size:255;not null;index" json:"host_email"`
	CapMen        int            `gorm:"not null;default:0" json:"cap_men"`
	CapWomen      int            `gorm:"not null;default:0" json:"cap_women"`
	CapCouples    int            `gorm:"not null;default:0" json:"cap_couples"`
	Summary       string         `gorm:"type:text" json:"summary"`
	InvitedEmails datatypes.JSON `gorm:"type:jsonb" json:"invited_emails,omitempty"` // only meaningful for private tier
	LiveStatus    string         `gorm:"size:200" json:"live_status,omitempty"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// Cap returns the capacity ceiling for a category; unknown categories get 0
func (e *Event) Cap(category string) int {
	switch category {
	case "men":
		return e.CapMen
	case "women":
		return e.CapWomen
	case "couples":
		return e.CapCouples
	}
	return 0
}

// InvitedList decodes invited_emails into a slice
func (e *Event) InvitedList() []string {
	var emails []string
	if len(e.InvitedEmails) > 0 {
		_ = json.Unmarshal(e.InvitedEmails, &emails)
	}
	return emails
}

// IsValidTier reports whether s is a known privacy tier
func IsValidTier(s string) bool {
	switch strings.ToLower(s) {
	case TierPublic, TierVetted, TierPrivate:
		return true
	}
	return false
}

// CreateEventRequest is the host-facing payload for creating an event
type CreateEventRequest struct {
	Title         string   `json:"title" binding:"required"`
	Slug          string   `json:"slug"`
	Date          string   `json:"date" binding:"required"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	PrivacyTier   string   `json:"privacy_tier"`
	CapMen        int      `json:"cap_men"`
	CapWomen      int      `json:"cap_women"`
	CapCouples    int      `json:"cap_couples"`
	Summary       string   `json:"summary"`
	InvitedEmails []string `json:"invited_emails"`
}

// EventView is the viewer-adjusted projection of an event: the address and
// coordinates are already filtered through the visibility resolver.
type EventView struct {
	ID          uint     `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	City        string   `json:"city"`
	Address     string   `json:"address,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	PrivacyTier string   `json:"privacy_tier"`
	HostName    string   `json:"host_name"`
	CapMen      int      `json:"cap_men"`
	CapWomen    int      `json:"cap_women"`
	CapCouples  int      `json:"cap_couples"`
	Summary     string   `json:"summary"`
	LiveStatus  string   `json:"live_status,omitempty"`
	IsHost      bool     `json:"is_host"`
}
