package notification

import (
	"testing"

	"github.com/velvetsocial/community-backend/internal/rsvp"
)

type recordedNotify struct {
	userID uint
	email  string
	kind   string
}

type fakeService struct {
	sent []recordedNotify
}

func (f *fakeService) Notify(userID uint, eventSlug, kind, title, body string) {
	f.sent = append(f.sent, recordedNotify{userID: userID, kind: kind})
}
func (f *fakeService) NotifyByEmail(email string, eventSlug, kind, title, body string) {
	f.sent = append(f.sent, recordedNotify{email: email, kind: kind})
}
func (f *fakeService) List(uint, int, int) ([]Notification, int64, error) { return nil, 0, nil }
func (f *fakeService) MarkRead(uint, uint) error                          { return nil }
func (f *fakeService) MarkAllRead(uint) error                             { return nil }
func (f *fakeService) UnreadCount(uint) (int64, error)                    { return 0, nil }
func (f *fakeService) RegisterDevice(uint, string, string) error          { return nil }
func (f *fakeService) UnregisterDevice(string) error                      { return nil }

func TestDispatchSubmittedNotifiesHost(t *testing.T) {
	svc := &fakeService{}
	dispatch(svc, rsvp.Message{
		Type:      "rsvp.submitted",
		EventSlug: "rooftop-social",
		HostEmail: "host@x.com",
		UserEmail: "alice@x.com",
		Category:  "women",
	})

	if len(svc.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(svc.sent))
	}
	if svc.sent[0].email != "host@x.com" || svc.sent[0].kind != "rsvp_received" {
		t.Errorf("unexpected fan-out: %+v", svc.sent[0])
	}
}

func TestDispatchDecisionNotifiesMember(t *testing.T) {
	for _, typ := range []string{"rsvp.approved", "rsvp.declined"} {
		svc := &fakeService{}
		dispatch(svc, rsvp.Message{Type: typ, UserID: 42, Status: typ[5:]})

		if len(svc.sent) != 1 {
			t.Fatalf("%s: sent %d notifications, want 1", typ, len(svc.sent))
		}
		if svc.sent[0].userID != 42 || svc.sent[0].kind != "rsvp_decision" {
			t.Errorf("%s: unexpected fan-out: %+v", typ, svc.sent[0])
		}
	}
}

func TestDispatchCheckin(t *testing.T) {
	svc := &fakeService{}
	dispatch(svc, rsvp.Message{Type: "rsvp.checkedin", UserID: 7})

	if len(svc.sent) != 1 || svc.sent[0].kind != "checkin" {
		t.Fatalf("unexpected fan-out: %+v", svc.sent)
	}
}

func TestDispatchSubmittedWithoutHostEmail(t *testing.T) {
	svc := &fakeService{}
	dispatch(svc, rsvp.Message{Type: "rsvp.submitted"})
	if len(svc.sent) != 0 {
		t.Errorf("no host email means no fan-out, got %+v", svc.sent)
	}
}

func TestDispatchUnknownTypeIgnored(t *testing.T) {
	svc := &fakeService{}
	dispatch(svc, rsvp.Message{Type: "rsvp.mystery", UserID: 7})
	if len(svc.sent) != 0 {
		t.Errorf("unknown types must be ignored, got %+v", svc.sent)
	}
}
