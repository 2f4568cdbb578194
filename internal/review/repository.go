package review

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(rev *Review) error
	FindByID(id uint) (*Review, error)
	FindByEventAndUser(eventSlug string, userID uint) (*Review, error)
	ListByStatus(status string, limit, offset int) ([]Review, int64, error)
	ListApprovedForEvent(eventSlug string) ([]Review, error)
	Update(rev *Review) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(rev *Review) error {
	return r.db.Create(rev).Error
}

func (r *repository) FindByID(id uint) (*Review, error) {
	var rev Review
	err := r.db.First(&rev, id).Error
	return &rev, err
}

func (r *repository) FindByEventAndUser(eventSlug string, userID uint) (*Review, error) {
	var rev Review
	err := r.db.Where("event_slug = ? AND user_id = ?", eventSlug, userID).First(&rev).Error
	return &rev, err
}

func (r *repository) ListByStatus(status string, limit, offset int) ([]Review, int64, error) {
	var reviews []Review
	var total int64

	q := r.db.Model(&Review{}).Where("status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&reviews).Error
	return reviews, total, err
}

func (r *repository) ListApprovedForEvent(eventSlug string) ([]Review, error) {
	var reviews []Review
	err := r.db.Where("event_slug = ? AND status = ?", eventSlug, StatusApproved).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *repository) Update(rev *Review) error {
	return r.db.Save(rev).Error
}
