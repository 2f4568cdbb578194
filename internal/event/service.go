package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	"github.com/velvetsocial/community-backend/internal/auditlog"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// RSVPStatusLookup lets the catalog ask the ledger for the viewer's RSVP
// status without importing the rsvp package directly
type RSVPStatusLookup func(eventSlug string, userID uint) string

type Service interface {
	CreateEvent(req CreateEventRequest, hostName, hostEmail string, ip string) (*Event, error)
	UpdateEvent(slug string, req CreateEventRequest, editorEmail string, isAdmin bool, ip string) (*Event, error)
	DeactivateEvent(slug string, editorEmail string, isAdmin bool, ip string) error
	GetBySlug(slug string) (*Event, error)
	ListByHost(hostEmail string) ([]Event, error)

	// CatalogForViewer filters private events and redacts addresses and
	// coordinates per viewer
	CatalogForViewer(viewerID uint, viewerEmail string) ([]EventView, error)
	ViewForViewer(slug string, viewerID uint, viewerEmail string) (*EventView, error)
}

type service struct {
	repo       Repository
	auditSvc   auditlog.Service
	rsvpStatus RSVPStatusLookup
}

func NewService(r Repository, auditSvc auditlog.Service, rsvpStatus RSVPStatusLookup) Service {
	return &service{repo: r, auditSvc: auditSvc, rsvpStatus: rsvpStatus}
}

func (s *service) CreateEvent(req CreateEventRequest, hostName, hostEmail string, ip string) (*Event, error) {
	tier := strings.ToLower(req.PrivacyTier)
	if tier == "" {
		tier = TierPublic
	}
	if !IsValidTier(tier) {
		return nil, errors.New("invalid privacy tier")
	}
	if req.CapMen < 0 || req.CapWomen < 0 || req.CapCouples < 0 {
		return nil, errors.New("capacities must be non-negative")
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	if exists, err := s.repo.SlugExists(slug); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.New("an event with this slug already exists")
	}

	var invited datatypes.JSON
	if tier == TierPrivate {
		raw, _ := json.Marshal(normalizeEmails(req.InvitedEmails))
		invited = datatypes.JSON(raw)
	}

	e := &Event{
		Slug:          slug,
		Title:         req.Title,
		Date:          req.Date,
		City:          req.City,
		Address:       req.Address,
		Lat:           req.Lat,
		Lng:           req.Lng,
		PrivacyTier:   tier,
		HostName:      hostName,
		HostEmail:     strings.ToLower(hostEmail),
		CapMen:        req.CapMen,
		CapWomen:      req.CapWomen,
		CapCouples:    req.CapCouples,
		Summary:       req.Summary,
		InvitedEmails: invited,
		IsActive:      true,
	}
	if err := s.repo.Create(e); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), nil, e.Slug, "EVENT_CREATED",
		map[string]interface{}{"title": e.Title, "tier": e.PrivacyTier}, ip, "success")

	return e, nil
}

func (s *service) UpdateEvent(slug string, req CreateEventRequest, editorEmail string, isAdmin bool, ip string) (*Event, error) {
	e, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, errors.New("event not found")
	}
	if !isAdmin && !strings.EqualFold(editorEmail, e.HostEmail) {
		return nil, errors.New("only the host or an admin can edit this event")
	}

	if req.PrivacyTier != "" {
		tier := strings.ToLower(req.PrivacyTier)
		if !IsValidTier(tier) {
			return nil, errors.New("invalid privacy tier")
		}
		e.PrivacyTier = tier
	}
	if req.CapMen < 0 || req.CapWomen < 0 || req.CapCouples < 0 {
		return nil, errors.New("capacities must be non-negative")
	}

	e.Title = req.Title
	e.Date = req.Date
	e.City = req.City
	e.Address = req.Address
	e.Lat = req.Lat
	e.Lng = req.Lng
	e.CapMen = req.CapMen
	e.CapWomen = req.CapWomen
	e.CapCouples = req.CapCouples
	e.Summary = req.Summary
	if e.PrivacyTier == TierPrivate {
		raw, _ := json.Marshal(normalizeEmails(req.InvitedEmails))
		e.InvitedEmails = datatypes.JSON(raw)
	}

	if err := s.repo.Update(e); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), nil, e.Slug, "EVENT_UPDATED",
		map[string]interface{}{"editor": editorEmail}, ip, "success")

	return e, nil
}

func (s *service) DeactivateEvent(slug string, editorEmail string, isAdmin bool, ip string) error {
	e, err := s.repo.GetBySlug(slug)
	if err != nil {
		return errors.New("event not found")
	}
	if !isAdmin && !strings.EqualFold(editorEmail, e.HostEmail) {
		return errors.New("only the host or an admin can deactivate this event")
	}

	e.IsActive = false
	if err := s.repo.Update(e); err != nil {
		return err
	}

	s.auditSvc.LogAction(context.Background(), nil, e.Slug, "EVENT_DEACTIVATED",
		map[string]interface{}{"editor": editorEmail}, ip, "success")
	return nil
}

func (s *service) GetBySlug(slug string) (*Event, error) {
	return s.repo.GetBySlug(slug)
}

func (s *service) ListByHost(hostEmail string) ([]Event, error) {
	return s.repo.ListByHost(hostEmail)
}

// =============================
// Viewer projections
// =============================

func (s *service) CatalogForViewer(viewerID uint, viewerEmail string) ([]EventView, error) {
	events, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(events))
	for i := range events {
		e := &events[i]
		if !VisibleToViewer(e, viewerEmail) {
			continue
		}
		views = append(views, s.project(e, viewerID, viewerEmail))
	}
	return views, nil
}

func (s *service) ViewForViewer(slug string, viewerID uint, viewerEmail string) (*EventView, error) {
	e, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, errors.New("event not found")
	}
	if !VisibleToViewer(e, viewerEmail) {
		// do not reveal that the event exists
		return nil, errors.New("event not found")
	}

	view := s.project(e, viewerID, viewerEmail)
	return &view, nil
}

func (s *service) project(e *Event, viewerID uint, viewerEmail string) EventView {
	rsvpStatus := ""
	if s.rsvpStatus != nil && viewerID != 0 {
		rsvpStatus = s.rsvpStatus(e.Slug, viewerID)
	}

	visible := CanSeeAddress(e, viewerEmail, rsvpStatus)
	lat, lng := ResolveCoordinate(e, visible)

	view := EventView{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Date:        e.Date,
		City:        e.City,
		PrivacyTier: e.PrivacyTier,
		HostName:    e.HostName,
		CapMen:      e.CapMen,
		CapWomen:    e.CapWomen,
		CapCouples:  e.CapCouples,
		Summary:     e.Summary,
		LiveStatus:  e.LiveStatus,
		Lat:         lat,
		Lng:         lng,
		IsHost:      strings.EqualFold(viewerEmail, e.HostEmail),
	}
	if visible {
		view.Address = e.Address
	}
	return view
}

// Slugify turns a title into a URL key
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = fmt.Sprintf("event-%d", len(title))
	}
	return slug
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
