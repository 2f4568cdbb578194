package admin

import (
	"context"
	"errors"

	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/auth"
	"github.com/velvetsocial/community-backend/utils"
)

type Service interface {
	ListUsers(filter UserFilter) ([]UserSummary, int64, error)
	PendingHosts() ([]UserSummary, error)

	ApproveHost(adminID uint, userID uint, ip string) error
	RejectHost(adminID uint, userID uint, reason string, ip string) error
	SetUserStatus(adminID uint, userID uint, status string, ip string) error

	Stats() (*PlatformStats, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

func summarize(users []auth.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:       u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Role:     u.Role.RoleName,
			Status:   u.Status,
		})
	}
	return out
}

func (s *service) ListUsers(filter UserFilter) ([]UserSummary, int64, error) {
	users, total, err := s.repo.ListUsers(filter)
	if err != nil {
		return nil, 0, err
	}
	return summarize(users), total, nil
}

func (s *service) PendingHosts() ([]UserSummary, error) {
	users, err := s.repo.PendingHosts()
	if err != nil {
		return nil, err
	}
	return summarize(users), nil
}

func (s *service) ApproveHost(adminID uint, userID uint, ip string) error {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return errors.New("user not found")
	}
	if user.Role.RoleName != "host" || user.Status != "pending" {
		return errors.New("user is not a pending host")
	}

	if err := s.repo.UpdateUserStatus(userID, "active"); err != nil {
		return err
	}

	utils.SendHostApprovalEmail(user.Email, user.FullName)
	s.auditSvc.LogAction(context.Background(), &adminID, "", "HOST_APPROVED",
		map[string]interface{}{"host_id": userID, "email": user.Email}, ip, "success")
	return nil
}

func (s *service) RejectHost(adminID uint, userID uint, reason string, ip string) error {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return errors.New("user not found")
	}
	if user.Role.RoleName != "host" || user.Status != "pending" {
		return errors.New("user is not a pending host")
	}
	if reason == "" {
		reason = "not specified"
	}

	if err := s.repo.UpdateUserStatus(userID, "rejected"); err != nil {
		return err
	}

	utils.SendHostRejectionEmail(user.Email, user.FullName, reason)
	s.auditSvc.LogAction(context.Background(), &adminID, "", "HOST_REJECTED",
		map[string]interface{}{"host_id": userID, "email": user.Email, "reason": reason}, ip, "success")
	return nil
}

func (s *service) SetUserStatus(adminID uint, userID uint, status string, ip string) error {
	if status != "active" && status != "inactive" {
		return errors.New("status must be active or inactive")
	}
	if adminID == userID {
		return errors.New("you cannot change your own status")
	}

	if _, err := s.repo.GetUser(userID); err != nil {
		return errors.New("user not found")
	}

	if err := s.repo.UpdateUserStatus(userID, status); err != nil {
		return err
	}

	s.auditSvc.LogAction(context.Background(), &adminID, "", "USER_STATUS_CHANGED",
		map[string]interface{}{"user_id": userID, "status": status}, ip, "success")
	return nil
}

func (s *service) Stats() (*PlatformStats, error) {
	return s.repo.Stats()
}
