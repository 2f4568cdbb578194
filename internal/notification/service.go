package notification

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/velvetsocial/community-backend/utils"
)

// UserLookup resolves a user id from an email address. Hosts are
// addressed by email on events, so fan-out needs this mapping.
type UserLookup interface {
	GetUserIDByEmail(email string) (uint, error)
}

type Service interface {
	// Notify stores an in-app notification and pushes to the user's
	// registered devices when FCM is configured
	Notify(userID uint, eventSlug, kind, title, body string)
	NotifyByEmail(email string, eventSlug, kind, title, body string)

	List(userID uint, limit, page int) ([]Notification, int64, error)
	MarkRead(id uint, userID uint) error
	MarkAllRead(userID uint) error
	UnreadCount(userID uint) (int64, error)

	RegisterDevice(userID uint, token, platform string) error
	UnregisterDevice(token string) error
}

type service struct {
	repo  Repository
	users UserLookup
}

func NewService(repo Repository, users UserLookup) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Notify(userID uint, eventSlug, kind, title, body string) {
	if err := s.repo.Create(&Notification{
		UserID:    userID,
		EventSlug: eventSlug,
		Title:     title,
		Body:      body,
		Kind:      kind,
	}); err != nil {
		log.Printf("⚠️ failed to store notification for user %d: %v", userID, err)
		return
	}

	s.push(userID, title, body)
}

func (s *service) NotifyByEmail(email string, eventSlug, kind, title, body string) {
	userID, err := s.users.GetUserIDByEmail(email)
	if err != nil {
		log.Printf("⚠️ notification target %s has no account, skipping", email)
		return
	}
	s.Notify(userID, eventSlug, kind, title, body)
}

func (s *service) push(userID uint, title, body string) {
	client := utils.GetFCMClient()
	if client == nil {
		return
	}

	tokens, err := s.repo.TokensForUser(userID)
	if err != nil || len(tokens) == 0 {
		return
	}

	ctx := context.Background()
	for _, token := range tokens {
		_, err := client.Send(ctx, &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		})
		if err != nil {
			log.Printf("⚠️ FCM send failed, dropping token: %v", err)
			_ = s.repo.DeleteDeviceToken(token)
		}
	}
}

func (s *service) List(userID uint, limit, page int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.ListByUser(userID, limit, (page-1)*limit)
}

func (s *service) MarkRead(id uint, userID uint) error {
	return s.repo.MarkRead(id, userID)
}

func (s *service) MarkAllRead(userID uint) error {
	return s.repo.MarkAllRead(userID)
}

func (s *service) UnreadCount(userID uint) (int64, error) {
	return s.repo.UnreadCount(userID)
}

func (s *service) RegisterDevice(userID uint, token, platform string) error {
	return s.repo.SaveDeviceToken(&DeviceToken{UserID: userID, Token: token, Platform: platform})
}

func (s *service) UnregisterDevice(token string) error {
	return s.repo.DeleteDeviceToken(token)
}
