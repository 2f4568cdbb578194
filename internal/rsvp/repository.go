package rsvp

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velvetsocial/community-backend/internal/event"
)

type Repository interface {
	// CreateWithCapacityCheck inserts the RSVP inside one transaction
	// that locks the event row and re-reads the live occupancy, so two
	// concurrent submissions cannot both slip under the ceiling.
	CreateWithCapacityCheck(r *RSVP) error

	FindByEventAndUser(eventSlug string, userID uint) (*RSVP, error)
	FindByID(id uint) (*RSVP, error)
	FindByToken(token string) (*RSVP, error)
	ListByEvent(eventSlug string) ([]RSVP, error)
	ListByUser(userID uint) ([]RSVP, error)
	UpdateStatus(id uint, status string) error

	// RedeemToken marks the token consumed with a single check-and-set;
	// returns the number of rows updated (0 means already consumed).
	RedeemToken(eventSlug, token string) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) CreateWithCapacityCheck(rec *RSVP) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ev event.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", rec.EventSlug).First(&ev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var occupied int64
		if err := tx.Model(&RSVP{}).
			Where("event_slug = ? AND category = ? AND status <> ?", rec.EventSlug, rec.Category, StatusDeclined).
			Count(&occupied).Error; err != nil {
			return err
		}

		if occupied >= int64(ev.Cap(rec.Category)) {
			return ErrCapacityExceeded
		}

		return tx.Create(rec).Error
	})
}

func (r *repository) FindByEventAndUser(eventSlug string, userID uint) (*RSVP, error) {
	var rec RSVP
	err := r.db.Where("event_slug = ? AND user_id = ?", eventSlug, userID).First(&rec).Error
	return &rec, err
}

func (r *repository) FindByID(id uint) (*RSVP, error) {
	var rec RSVP
	err := r.db.First(&rec, id).Error
	return &rec, err
}

func (r *repository) FindByToken(token string) (*RSVP, error) {
	var rec RSVP
	err := r.db.Where("checkin_token = ?", token).First(&rec).Error
	return &rec, err
}

func (r *repository) ListByEvent(eventSlug string) ([]RSVP, error) {
	var recs []RSVP
	err := r.db.Where("event_slug = ?", eventSlug).Order("created_at ASC").Find(&recs).Error
	return recs, err
}

func (r *repository) ListByUser(userID uint) ([]RSVP, error) {
	var recs []RSVP
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&recs).Error
	return recs, err
}

func (r *repository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&RSVP{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) RedeemToken(eventSlug, token string) (int64, error) {
	res := r.db.Model(&RSVP{}).
		Where("event_slug = ? AND checkin_token = ? AND consumed_at IS NULL", eventSlug, token).
		Update("consumed_at", time.Now())
	return res.RowsAffected, res.Error
}
