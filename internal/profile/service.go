package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/internal/auditlog"
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

type Service interface {
	GetOrCreate(userID uint, fallbackHandle string) (*Profile, error)
	GetByUserID(userID uint) (*Profile, error)
	GetByHandle(handle string) (*Profile, error)
	UpdateProfile(userID uint, req UpdateProfileRequest, ip string) (*Profile, error)
	ListDiscoverable(limit, page int) ([]Profile, int64, error)

	GrantBadge(adminID uint, req BadgeRequest, ip string) error
	RevokeBadge(adminID uint, req BadgeRequest, ip string) error
	HasBadge(userID uint, badge string) bool
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(r Repository, auditSvc auditlog.Service) Service {
	return &service{repo: r, auditSvc: auditSvc}
}

// GetOrCreate returns the user's profile, creating an empty one on first
// access so every member always has a row
func (s *service) GetOrCreate(userID uint, fallbackHandle string) (*Profile, error) {
	p, err := s.repo.GetByUserID(userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &Profile{
		UserID:       userID,
		Handle:       normalizeHandle(fallbackHandle, userID),
		Interests:    datatypes.JSON([]byte("[]")),
		TrustBadges:  datatypes.JSON([]byte("[]")),
		Discoverable: true,
	}
	if err := s.repo.Create(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *service) GetByUserID(userID uint) (*Profile, error) {
	return s.repo.GetByUserID(userID)
}

func (s *service) GetByHandle(handle string) (*Profile, error) {
	return s.repo.GetByHandle(handle)
}

func (s *service) UpdateProfile(userID uint, req UpdateProfileRequest, ip string) (*Profile, error) {
	p, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, errors.New("profile not found")
	}

	if req.Handle != "" && req.Handle != p.Handle {
		handle := strings.ToLower(req.Handle)
		if !handlePattern.MatchString(handle) {
			return nil, errors.New("handle must be 3-30 chars, lowercase letters, digits or underscore")
		}
		if existing, err := s.repo.GetByHandle(handle); err == nil && existing.UserID != userID {
			return nil, errors.New("handle already taken")
		}
		p.Handle = handle
	}

	p.Bio = req.Bio
	p.AvatarURL = req.AvatarURL
	p.City = req.City
	if req.Interests != nil {
		raw, _ := json.Marshal(req.Interests)
		p.Interests = datatypes.JSON(raw)
	}
	if req.Discoverable != nil {
		p.Discoverable = *req.Discoverable
	}

	if err := s.repo.Update(p); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(context.Background(), &userID, "", "PROFILE_UPDATED",
		map[string]interface{}{"handle": p.Handle}, ip, "success")

	return p, nil
}

func (s *service) ListDiscoverable(limit, page int) ([]Profile, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.ListDiscoverable(limit, (page-1)*limit)
}

// =============================
// Trust badges (admin only)
// =============================

func (s *service) GrantBadge(adminID uint, req BadgeRequest, ip string) error {
	p, err := s.repo.GetByUserID(req.UserID)
	if err != nil {
		return errors.New("profile not found")
	}

	badges := decodeBadges(p.TrustBadges)
	for _, b := range badges {
		if b == req.Badge {
			return nil // already granted
		}
	}
	badges = append(badges, req.Badge)

	raw, _ := json.Marshal(badges)
	p.TrustBadges = datatypes.JSON(raw)
	if err := s.repo.Update(p); err != nil {
		return err
	}

	s.auditSvc.LogAction(context.Background(), &adminID, "", "BADGE_GRANTED",
		map[string]interface{}{"target_user_id": req.UserID, "badge": req.Badge}, ip, "success")
	return nil
}

func (s *service) RevokeBadge(adminID uint, req BadgeRequest, ip string) error {
	p, err := s.repo.GetByUserID(req.UserID)
	if err != nil {
		return errors.New("profile not found")
	}

	badges := decodeBadges(p.TrustBadges)
	kept := badges[:0]
	for _, b := range badges {
		if b != req.Badge {
			kept = append(kept, b)
		}
	}

	raw, _ := json.Marshal(kept)
	p.TrustBadges = datatypes.JSON(raw)
	if err := s.repo.Update(p); err != nil {
		return err
	}

	s.auditSvc.LogAction(context.Background(), &adminID, "", "BADGE_REVOKED",
		map[string]interface{}{"target_user_id": req.UserID, "badge": req.Badge}, ip, "success")
	return nil
}

func (s *service) HasBadge(userID uint, badge string) bool {
	p, err := s.repo.GetByUserID(userID)
	if err != nil {
		return false
	}
	for _, b := range decodeBadges(p.TrustBadges) {
		if b == badge {
			return true
		}
	}
	return false
}

func decodeBadges(raw datatypes.JSON) []string {
	var badges []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &badges)
	}
	if badges == nil {
		badges = []string{}
	}
	return badges
}

func normalizeHandle(base string, userID uint) string {
	h := strings.ToLower(strings.TrimSpace(base))
	h = strings.ReplaceAll(h, " ", "_")
	var sb strings.Builder
	for _, r := range h {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		}
	}
	h = sb.String()
	if len(h) < 3 {
		h = fmt.Sprintf("member_%d", userID)
	}
	if len(h) > 30 {
		h = h[:30]
	}
	return h
}
