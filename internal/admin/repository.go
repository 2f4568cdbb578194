package admin

import (
	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/internal/auth"
	"github.com/velvetsocial/community-backend/internal/event"
	"github.com/velvetsocial/community-backend/internal/review"
	"github.com/velvetsocial/community-backend/internal/rsvp"
)

type Repository interface {
	ListUsers(filter UserFilter) ([]auth.User, int64, error)
	GetUser(id uint) (*auth.User, error)
	UpdateUserStatus(id uint, status string) error
	PendingHosts() ([]auth.User, error)
	Stats() (*PlatformStats, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListUsers(filter UserFilter) ([]auth.User, int64, error) {
	var users []auth.User
	var total int64

	q := r.db.Model(&auth.User{}).Preload("Role")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Role != "" {
		q = q.Joins("JOIN user_roles ON user_roles.id = users.role_id").
			Where("user_roles.role_name = ?", filter.Role)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	err := q.Order("users.created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

func (r *repository) GetUser(id uint) (*auth.User, error) {
	var user auth.User
	err := r.db.Preload("Role").First(&user, id).Error
	return &user, err
}

func (r *repository) UpdateUserStatus(id uint, status string) error {
	return r.db.Model(&auth.User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) PendingHosts() ([]auth.User, error) {
	var users []auth.User
	err := r.db.Preload("Role").
		Joins("JOIN user_roles ON user_roles.id = users.role_id").
		Where("user_roles.role_name = ? AND users.status = ?", "host", "pending").
		Order("users.created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) Stats() (*PlatformStats, error) {
	var stats PlatformStats

	if err := r.db.Model(&auth.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&auth.User{}).
		Joins("JOIN user_roles ON user_roles.id = users.role_id").
		Where("user_roles.role_name = ? AND users.status = ?", "host", "pending").
		Count(&stats.PendingHosts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&event.Event{}).Where("is_active = ?", true).Count(&stats.ActiveEvents).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&rsvp.RSVP{}).Count(&stats.TotalRSVPs).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&rsvp.RSVP{}).Where("consumed_at IS NOT NULL").Count(&stats.CheckedIn).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&review.Review{}).Where("status = ?", review.StatusPending).Count(&stats.PendingReviews).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
