package notification

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(n *Notification) error
	ListByUser(userID uint, limit, offset int) ([]Notification, int64, error)
	MarkRead(id uint, userID uint) error
	MarkAllRead(userID uint) error
	UnreadCount(userID uint) (int64, error)

	SaveDeviceToken(t *DeviceToken) error
	TokensForUser(userID uint) ([]string, error)
	DeleteDeviceToken(token string) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(n *Notification) error {
	return r.db.Create(n).Error
}

func (r *repository) ListByUser(userID uint, limit, offset int) ([]Notification, int64, error) {
	var notifications []Notification
	var total int64

	q := r.db.Model(&Notification{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, total, err
}

func (r *repository) MarkRead(id uint, userID uint) error {
	return r.db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *repository) MarkAllRead(userID uint) error {
	return r.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *repository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) SaveDeviceToken(t *DeviceToken) error {
	// re-registering the same token is a no-op
	var existing DeviceToken
	err := r.db.Where("token = ?", t.Token).First(&existing).Error
	if err == nil {
		existing.UserID = t.UserID
		existing.Platform = t.Platform
		return r.db.Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(t).Error
}

func (r *repository) TokensForUser(userID uint) ([]string, error) {
	var tokens []string
	err := r.db.Model(&DeviceToken{}).Where("user_id = ?", userID).Pluck("token", &tokens).Error
	return tokens, err
}

func (r *repository) DeleteDeviceToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&DeviceToken{}).Error
}
