package event

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(e *Event) error
	GetBySlug(slug string) (*Event, error)
	GetByID(id uint) (*Event, error)
	ListActive() ([]Event, error)
	ListByHost(hostEmail string) ([]Event, error)
	Update(e *Event) error
	UpdateLiveStatus(slug string, status string) error
	SlugExists(slug string) (bool, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(e *Event) error {
	return r.db.Create(e).Error
}

func (r *repository) GetBySlug(slug string) (*Event, error) {
	var e Event
	err := r.db.Where("slug = ?", slug).First(&e).Error
	return &e, err
}

func (r *repository) GetByID(id uint) (*Event, error) {
	var e Event
	err := r.db.First(&e, id).Error
	return &e, err
}

func (r *repository) ListActive() ([]Event, error) {
	var events []Event
	err := r.db.Where("is_active = ?", true).Order("date ASC").Find(&events).Error
	return events, err
}

func (r *repository) ListByHost(hostEmail string) ([]Event, error) {
	var events []Event
	err := r.db.Where("lower(host_email) = lower(?)", hostEmail).Order("date DESC").Find(&events).Error
	return events, err
}

func (r *repository) Update(e *Event) error {
	return r.db.Save(e).Error
}

func (r *repository) UpdateLiveStatus(slug string, status string) error {
	return r.db.Model(&Event{}).Where("slug = ?", slug).Update("live_status", status).Error
}

func (r *repository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&Event{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
