package profile

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Profile represents the member_profiles table. One row per user; the
// display handle is what other members see on RSVPs and chat.
type Profile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Handle      string         `gorm:"size:60;uniqueIndex;not null" json:"handle"`
	Bio         string         `gorm:"type:text" json:"bio"`
	AvatarURL   string         `gorm:"size:500" json:"avatar_url"`
	City        string         `gorm:"size:120" json:"city"`
	Interests   datatypes.JSON `gorm:"type:jsonb" json:"interests"`    // ["music","dining",...]
	TrustBadges datatypes.JSON `gorm:"type:jsonb" json:"trust_badges"` // ["verified","vouched",...]
	Discoverable bool          `gorm:"default:true" json:"discoverable"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Profile) TableName() string {
	return "member_profiles"
}

// Badges decodes trust_badges into a slice
func (p *Profile) Badges() []string {
	var badges []string
	if len(p.TrustBadges) > 0 {
		_ = json.Unmarshal(p.TrustBadges, &badges)
	}
	if badges == nil {
		badges = []string{}
	}
	return badges
}

// UpdateProfileRequest carries the member-editable fields
type UpdateProfileRequest struct {
	Handle       string   `json:"handle"`
	Bio          string   `json:"bio"`
	AvatarURL    string   `json:"avatar_url"`
	City         string   `json:"city"`
	Interests    []string `json:"interests"`
	Discoverable *bool    `json:"discoverable"`
}

// BadgeRequest is used by admins to grant or revoke a trust badge
type BadgeRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Badge  string `json:"badge" binding:"required"`
}
