package review

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/event"
)

type fakeRepo struct {
	reviews []Review
	nextID  uint
}

func (f *fakeRepo) Create(rev *Review) error {
	f.nextID++
	rev.ID = f.nextID
	f.reviews = append(f.reviews, *rev)
	return nil
}

func (f *fakeRepo) FindByID(id uint) (*Review, error) {
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			rev := f.reviews[i]
			return &rev, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEventAndUser(eventSlug string, userID uint) (*Review, error) {
	for i := range f.reviews {
		if f.reviews[i].EventSlug == eventSlug && f.reviews[i].UserID == userID {
			rev := f.reviews[i]
			return &rev, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListByStatus(status string, limit, offset int) ([]Review, int64, error) {
	var out []Review
	for _, r := range f.reviews {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ListApprovedForEvent(eventSlug string) ([]Review, error) {
	var out []Review
	for _, r := range f.reviews {
		if r.EventSlug == eventSlug && r.Status == StatusApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(rev *Review) error {
	for i := range f.reviews {
		if f.reviews[i].ID == rev.ID {
			f.reviews[i] = *rev
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeEvents struct{}

func (fakeEvents) GetBySlug(slug string) (*event.Event, error) {
	if slug == "rooftop-social" {
		return &event.Event{Slug: slug, Title: "Rooftop Social"}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type noopAudit struct{}

func (noopAudit) LogAction(context.Context, *uint, string, string, map[string]interface{}, string, string) error {
	return nil
}
func (noopAudit) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}
func (noopAudit) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func newTestService() (Service, *fakeRepo) {
	repo := &fakeRepo{}
	return NewService(repo, fakeEvents{}, noopAudit{}), repo
}

func TestSubmitStartsPending(t *testing.T) {
	svc, _ := newTestService()

	rev, err := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: 5, Text: "great night"}, "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if rev.Status != StatusPending {
		t.Errorf("new review status = %s, want pending", rev.Status)
	}
}

func TestSubmitRejectsBadRating(t *testing.T) {
	svc, _ := newTestService()
	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: rating}, ""); err == nil {
			t.Errorf("rating %d should be rejected", rating)
		}
	}
}

func TestSubmitOncePerEvent(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: 4}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: 5}, ""); err == nil {
		t.Error("second review for the same event should be rejected")
	}
}

func TestPendingReviewsHiddenUntilApproved(t *testing.T) {
	svc, _ := newTestService()

	rev, _ := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: 5}, "")

	visible, _ := svc.ListApprovedForEvent("rooftop-social")
	if len(visible) != 0 {
		t.Fatalf("pending review must not be listed, got %d", len(visible))
	}

	if _, err := svc.Moderate(rev.ID, StatusApproved, 99, ""); err != nil {
		t.Fatalf("Moderate() error = %v", err)
	}

	visible, _ = svc.ListApprovedForEvent("rooftop-social")
	if len(visible) != 1 {
		t.Fatalf("approved review must be listed, got %d", len(visible))
	}
}

func TestModerateOnlyOnce(t *testing.T) {
	svc, _ := newTestService()
	rev, _ := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: 5}, "")

	if _, err := svc.Moderate(rev.ID, StatusRejected, 99, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Moderate(rev.ID, StatusApproved, 99, ""); err == nil {
		t.Error("a moderated review must not be re-moderated")
	}
}

func TestModerateRejectsBadDecision(t *testing.T) {
	svc, _ := newTestService()
	rev, _ := svc.Submit("rooftop-social", 1, "Alice", SubmitReviewRequest{Rating: 5}, "")

	if _, err := svc.Moderate(rev.ID, "pending", 99, ""); err == nil {
		t.Error("decision must be approved or rejected")
	}
}
