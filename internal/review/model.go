package review

import (
	"time"
)

// Moderation states. Only approved reviews are publicly listed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review represents the reviews table: one moderated review per
// (event, author)
type Review struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventSlug   string     `gorm:"size:120;not null;uniqueIndex:idx_review_event_user,priority:1" json:"event_slug"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_review_event_user,priority:2" json:"user_id"`
	AuthorName  string     `gorm:"size:120" json:"author_name"`
	Rating      int        `gorm:"not null" json:"rating"` // 1..5
	Text        string     `gorm:"type:text" json:"text"`
	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ModeratedBy *uint      `json:"moderated_by,omitempty"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// SubmitReviewRequest is the member-facing payload
type SubmitReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}
