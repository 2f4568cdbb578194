package profile

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(p *Profile) error
	GetByUserID(userID uint) (*Profile, error)
	GetByHandle(handle string) (*Profile, error)
	Update(p *Profile) error
	ListDiscoverable(limit, offset int) ([]Profile, int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(p *Profile) error {
	return r.db.Create(p).Error
}

func (r *repository) GetByUserID(userID uint) (*Profile, error) {
	var p Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *repository) GetByHandle(handle string) (*Profile, error) {
	var p Profile
	err := r.db.Where("lower(handle) = lower(?)", handle).First(&p).Error
	return &p, err
}

func (r *repository) Update(p *Profile) error {
	return r.db.Save(p).Error
}

func (r *repository) ListDiscoverable(limit, offset int) ([]Profile, int64, error) {
	var profiles []Profile
	var total int64

	q := r.db.Model(&Profile{}).Where("discoverable = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&profiles).Error
	return profiles, total, err
}
