package review

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/event"
)

// EventSource is the slice of the catalog the review flow needs
type EventSource interface {
	GetBySlug(slug string) (*event.Event, error)
}

type Service interface {
	// Submit files a review; it stays invisible until a moderator
	// approves it. One review per (event, author).
	Submit(eventSlug string, userID uint, authorName string, req SubmitReviewRequest, ip string) (*Review, error)

	ListApprovedForEvent(eventSlug string) ([]Review, error)
	ListPending(limit, page int) ([]Review, int64, error)

	// Moderate moves a pending review to approved or rejected
	Moderate(reviewID uint, decision string, moderatorID uint, ip string) (*Review, error)
}

type service struct {
	repo     Repository
	events   EventSource
	auditSvc auditlog.Service
}

func NewService(repo Repository, events EventSource, auditSvc auditlog.Service) Service {
	return &service{repo: repo, events: events, auditSvc: auditSvc}
}

func (s *service) Submit(eventSlug string, userID uint, authorName string, req SubmitReviewRequest, ip string) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	if _, err := s.events.GetBySlug(eventSlug); err != nil {
		return nil, errors.New("event not found")
	}

	if _, err := s.repo.FindByEventAndUser(eventSlug, userID); err == nil {
		return nil, errors.New("you already reviewed this event")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rev := &Review{
		EventSlug:  eventSlug,
		UserID:     userID,
		AuthorName: authorName,
		Rating:     req.Rating,
		Text:       req.Text,
		Status:     StatusPending,
	}
	if err := s.repo.Create(rev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), &userID, eventSlug, "REVIEW_SUBMITTED",
		map[string]interface{}{"rating": req.Rating}, ip, "success")

	return rev, nil
}

func (s *service) ListApprovedForEvent(eventSlug string) ([]Review, error) {
	return s.repo.ListApprovedForEvent(eventSlug)
}

func (s *service) ListPending(limit, page int) ([]Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.ListByStatus(StatusPending, limit, (page-1)*limit)
}

func (s *service) Moderate(reviewID uint, decision string, moderatorID uint, ip string) (*Review, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return nil, errors.New("decision must be approved or rejected")
	}

	rev, err := s.repo.FindByID(reviewID)
	if err != nil {
		return nil, errors.New("review not found")
	}
	if rev.Status != StatusPending {
		return nil, errors.New("review was already moderated")
	}

	now := time.Now()
	rev.Status = decision
	rev.ModeratedBy = &moderatorID
	rev.ModeratedAt = &now
	if err := s.repo.Update(rev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), &moderatorID, rev.EventSlug, "REVIEW_MODERATED",
		map[string]interface{}{"review_id": rev.ID, "decision": decision}, ip, "success")

	return rev, nil
}
