package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/event"
	"github.com/velvetsocial/community-backend/utils"
)

// EventSource is the slice of the event catalog the ledger needs
type EventSource interface {
	GetBySlug(slug string) (*event.Event, error)
}

type Service interface {
	// Submit records one RSVP per (event, user). Resubmission returns
	// the existing record unchanged. Public events approve immediately,
	// vetted and private events start pending. The insert is gated by a
	// transactional capacity re-check.
	Submit(eventSlug, category string, req Requester, ip string) (*SubmitResult, error)

	// UpdateStatus moves a pending RSVP to approved or declined. Only
	// the event's host or an admin may call it; the check is enforced
	// here, not in the transport layer.
	UpdateStatus(rsvpID uint, newStatus string, reviewer Reviewer, ip string) (*RSVP, error)

	// Checkin redeems a check-in token exactly once
	Checkin(token, eventSlug string, caller Requester, ip string) (*RSVP, error)

	ListForEvent(eventSlug string, reviewer Reviewer) ([]RSVP, error)
	MyRSVPs(userID uint) ([]RSVP, error)
	CapacityFor(eventSlug string) (CapacitySnapshot, error)
	StatusFor(eventSlug string, userID uint) string
	GetOwned(rsvpID uint, userID uint) (*RSVP, error)
}

type service struct {
	repo     Repository
	events   EventSource
	auditSvc auditlog.Service
}

func NewService(repo Repository, events EventSource, auditSvc auditlog.Service) Service {
	return &service{repo: repo, events: events, auditSvc: auditSvc}
}

// =============================
// Submit
// =============================

func (s *service) Submit(eventSlug, category string, req Requester, ip string) (*SubmitResult, error) {
	if req.UserID == 0 || req.Email == "" {
		return nil, ErrUnauthenticated
	}
	if !IsValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	ev, err := s.events.GetBySlug(eventSlug)
	if err != nil || !ev.IsActive {
		return nil, ErrNotFound
	}
	if !event.VisibleToViewer(ev, req.Email) {
		return nil, ErrForbidden
	}

	// Idempotent: a second submit reports current state, no new record
	if existing, err := s.repo.FindByEventAndUser(eventSlug, req.UserID); err == nil {
		return &SubmitResult{RSVP: existing, Created: false}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := StatusPending
	if ev.PrivacyTier == event.TierPublic {
		status = StatusApproved
	}

	rec := &RSVP{
		EventSlug:    eventSlug,
		UserID:       req.UserID,
		UserEmail:    strings.ToLower(req.Email),
		DisplayName:  req.DisplayName,
		Category:     category,
		Status:       status,
		TrustBadges:  encodeBadges(req.TrustBadges),
		CheckinToken: NewCheckinToken(),
	}

	if err := s.repo.CreateWithCapacityCheck(rec); err != nil {
		// Two in-flight first submits can race past the lookup above;
		// the unique (event, user) index turns the loser into a no-op.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, lookupErr := s.repo.FindByEventAndUser(eventSlug, req.UserID); lookupErr == nil {
				return &SubmitResult{RSVP: existing, Created: false}, nil
			}
		}
		if errors.Is(err, ErrCapacityExceeded) {
			s.auditSvc.LogAction(context.Background(), &req.UserID, eventSlug, "RSVP_REJECTED_FULL",
				map[string]interface{}{"category": category}, ip, "failure")
		}
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), &req.UserID, eventSlug, "RSVP_SUBMITTED",
		map[string]interface{}{"category": category, "status": status}, ip, "success")

	utils.PublishRSVPEvent(Message{
		Type:       "rsvp.submitted",
		EventSlug:  eventSlug,
		EventTitle: ev.Title,
		RSVPID:     rec.ID,
		UserID:     req.UserID,
		UserEmail:  rec.UserEmail,
		HostEmail:  ev.HostEmail,
		Category:   category,
		Status:     status,
		At:         time.Now(),
	}, eventSlug)

	return &SubmitResult{RSVP: rec, Created: true}, nil
}

// =============================
// Moderation
// =============================

func (s *service) UpdateStatus(rsvpID uint, newStatus string, reviewer Reviewer, ip string) (*RSVP, error) {
	if newStatus != StatusApproved && newStatus != StatusDeclined {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrValidation, StatusApproved, StatusDeclined)
	}

	rec, err := s.repo.FindByID(rsvpID)
	if err != nil {
		return nil, ErrNotFound
	}

	ev, err := s.events.GetBySlug(rec.EventSlug)
	if err != nil {
		return nil, ErrNotFound
	}
	if !reviewer.IsAdmin && !strings.EqualFold(reviewer.Email, ev.HostEmail) {
		return nil, ErrForbidden
	}

	// One-way: only pending records can be reviewed, declined stays declined
	if rec.Status != StatusPending {
		return nil, fmt.Errorf("%w: RSVP is already %s", ErrValidation, rec.Status)
	}

	if err := s.repo.UpdateStatus(rec.ID, newStatus); err != nil {
		return nil, err
	}
	rec.Status = newStatus

	s.auditSvc.LogAction(context.Background(), &reviewer.UserID, rec.EventSlug, "RSVP_"+strings.ToUpper(newStatus),
		map[string]interface{}{"rsvp_id": rec.ID, "member": rec.UserEmail}, ip, "success")

	utils.SendRSVPDecisionEmail(rec.UserEmail, ev.Title, newStatus)

	utils.PublishRSVPEvent(Message{
		Type:       "rsvp." + newStatus,
		EventSlug:  rec.EventSlug,
		EventTitle: ev.Title,
		RSVPID:     rec.ID,
		UserID:     rec.UserID,
		UserEmail:  rec.UserEmail,
		HostEmail:  ev.HostEmail,
		Category:   rec.Category,
		Status:     newStatus,
		At:         time.Now(),
	}, rec.EventSlug)

	return rec, nil
}

// =============================
// Check-in
// =============================

func (s *service) Checkin(token, eventSlug string, caller Requester, ip string) (*RSVP, error) {
	if caller.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if token == "" || eventSlug == "" {
		return nil, fmt.Errorf("%w: token and eventSlug are required", ErrValidation)
	}

	rec, err := s.repo.FindByToken(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if rec.EventSlug != eventSlug {
		return nil, ErrForbidden
	}
	if rec.ConsumedAt != nil {
		return nil, ErrAlreadyRedeemed
	}

	rows, err := s.repo.RedeemToken(eventSlug, token)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// lost a concurrent redemption race
		return nil, ErrAlreadyRedeemed
	}

	now := time.Now()
	rec.ConsumedAt = &now

	s.auditSvc.LogAction(context.Background(), &caller.UserID, eventSlug, "RSVP_CHECKED_IN",
		map[string]interface{}{"rsvp_id": rec.ID, "member": rec.UserEmail}, ip, "success")

	utils.PublishRSVPEvent(Message{
		Type:      "rsvp.checkedin",
		EventSlug: eventSlug,
		RSVPID:    rec.ID,
		UserID:    rec.UserID,
		UserEmail: rec.UserEmail,
		Category:  rec.Category,
		Status:    rec.Status,
		At:        now,
	}, eventSlug)

	return rec, nil
}

// =============================
// Queries
// =============================

func (s *service) ListForEvent(eventSlug string, reviewer Reviewer) ([]RSVP, error) {
	ev, err := s.events.GetBySlug(eventSlug)
	if err != nil {
		return nil, ErrNotFound
	}
	if !reviewer.IsAdmin && !strings.EqualFold(reviewer.Email, ev.HostEmail) {
		return nil, ErrForbidden
	}
	return s.repo.ListByEvent(eventSlug)
}

func (s *service) MyRSVPs(userID uint) ([]RSVP, error) {
	return s.repo.ListByUser(userID)
}

func (s *service) CapacityFor(eventSlug string) (CapacitySnapshot, error) {
	recs, err := s.repo.ListByEvent(eventSlug)
	if err != nil {
		return CapacitySnapshot{}, err
	}
	return Count(recs), nil
}

// StatusFor is wired into the event catalog so address visibility can
// consider the viewer's RSVP. Empty string means no RSVP.
func (s *service) StatusFor(eventSlug string, userID uint) string {
	rec, err := s.repo.FindByEventAndUser(eventSlug, userID)
	if err != nil {
		return ""
	}
	return rec.Status
}

func (s *service) GetOwned(rsvpID uint, userID uint) (*RSVP, error) {
	rec, err := s.repo.FindByID(rsvpID)
	if err != nil {
		return nil, ErrNotFound
	}
	if rec.UserID != userID {
		return nil, ErrForbidden
	}
	return rec, nil
}
