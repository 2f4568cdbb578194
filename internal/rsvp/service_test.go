package rsvp

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/event"
)

// =============================
// In-memory fakes
// =============================

type fakeRepo struct {
	records []RSVP
	nextID  uint
	events  map[string]*event.Event
}

func newFakeRepo(events ...*event.Event) *fakeRepo {
	m := make(map[string]*event.Event)
	for _, e := range events {
		m[e.Slug] = e
	}
	return &fakeRepo{nextID: 1, events: m}
}

func (f *fakeRepo) CreateWithCapacityCheck(rec *RSVP) error {
	ev, ok := f.events[rec.EventSlug]
	if !ok {
		return ErrNotFound
	}
	occupied := 0
	for _, r := range f.records {
		if r.EventSlug == rec.EventSlug && r.Category == rec.Category && r.Status != StatusDeclined {
			occupied++
		}
	}
	if occupied >= ev.Cap(rec.Category) {
		return ErrCapacityExceeded
	}
	for _, r := range f.records {
		if r.EventSlug == rec.EventSlug && r.UserID == rec.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	rec.ID = f.nextID
	f.nextID++
	rec.CreatedAt = time.Now()
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeRepo) FindByEventAndUser(eventSlug string, userID uint) (*RSVP, error) {
	for i := range f.records {
		if f.records[i].EventSlug == eventSlug && f.records[i].UserID == userID {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByID(id uint) (*RSVP, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByToken(token string) (*RSVP, error) {
	for i := range f.records {
		if f.records[i].CheckinToken == token {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListByEvent(eventSlug string) ([]RSVP, error) {
	var out []RSVP
	for _, r := range f.records {
		if r.EventSlug == eventSlug {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(userID uint) ([]RSVP, error) {
	var out []RSVP
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(id uint, status string) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) RedeemToken(eventSlug, token string) (int64, error) {
	for i := range f.records {
		if f.records[i].EventSlug == eventSlug && f.records[i].CheckinToken == token && f.records[i].ConsumedAt == nil {
			now := time.Now()
			f.records[i].ConsumedAt = &now
			return 1, nil
		}
	}
	return 0, nil
}

type fakeEventSource struct {
	events map[string]*event.Event
}

func (f *fakeEventSource) GetBySlug(slug string) (*event.Event, error) {
	if e, ok := f.events[slug]; ok {
		return e, nil
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

func newTestService(events ...*event.Event) (Service, *fakeRepo) {
	repo := newFakeRepo(events...)
	src := &fakeEventSource{events: repo.events}
	return NewService(repo, src, noopAudit{}), repo
}

func publicEvent() *event.Event {
	return &event.Event{
		Slug: "rooftop-social", Title: "Rooftop Social", PrivacyTier: event.TierPublic,
		HostEmail: "host@x.com", CapMen: 5, CapWomen: 5, CapCouples: 5, IsActive: true,
	}
}

func vettedEvent() *event.Event {
	return &event.Event{
		Slug: "vetted-dinner", Title: "Vetted Dinner", PrivacyTier: event.TierVetted,
		HostEmail: "host@x.com", CapMen: 5, CapWomen: 5, CapCouples: 5, IsActive: true,
	}
}

var alice = Requester{UserID: 1, Email: "alice@x.com", DisplayName: "Alice"}
var bob = Requester{UserID: 2, Email: "bob@x.com", DisplayName: "Bob"}

// =============================
// Submit
// =============================

func TestSubmitPublicApprovesImmediately(t *testing.T) {
	svc, _ := newTestService(publicEvent())

	res, err := svc.Submit("rooftop-social", CategoryWomen, alice, "1.2.3.4")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !res.Created {
		t.Error("first submit should create a record")
	}
	if res.RSVP.Status != StatusApproved {
		t.Errorf("public event must approve immediately, got %s", res.RSVP.Status)
	}
}

func TestSubmitVettedStartsPending(t *testing.T) {
	svc, _ := newTestService(vettedEvent())

	res, err := svc.Submit("vetted-dinner", CategoryMen, bob, "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.RSVP.Status != StatusPending {
		t.Errorf("vetted event must start pending, got %s", res.RSVP.Status)
	}
}

func TestSubmitPrivateInvitedStartsPending(t *testing.T) {
	e := publicEvent()
	e.Slug = "secret-soiree"
	e.PrivacyTier = event.TierPrivate
	e.InvitedEmails = []byte(`["alice@x.com"]`)
	svc, _ := newTestService(e)

	res, err := svc.Submit("secret-soiree", CategoryWomen, alice, "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.RSVP.Status != StatusPending {
		t.Errorf("private event must start pending, got %s", res.RSVP.Status)
	}
}

func TestSubmitPrivateUninvitedForbidden(t *testing.T) {
	e := publicEvent()
	e.Slug = "secret-soiree"
	e.PrivacyTier = event.TierPrivate
	e.InvitedEmails = []byte(`["alice@x.com"]`)
	svc, _ := newTestService(e)

	if _, err := svc.Submit("secret-soiree", CategoryMen, bob, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("Submit() error = %v, want ErrForbidden", err)
	}
}

func TestSubmitIdempotent(t *testing.T) {
	svc, repo := newTestService(publicEvent())

	first, err := svc.Submit("rooftop-social", CategoryMen, alice, "")
	if err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	second, err := svc.Submit("rooftop-social", CategoryMen, alice, "")
	if err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	if second.Created {
		t.Error("resubmission must not create a second record")
	}
	if second.RSVP.ID != first.RSVP.ID {
		t.Errorf("resubmission returned a different record: %d vs %d", second.RSVP.ID, first.RSVP.ID)
	}
	if len(repo.records) != 1 {
		t.Errorf("ledger has %d records, want 1", len(repo.records))
	}
}

func TestSubmitCapacityExceeded(t *testing.T) {
	e := publicEvent()
	e.CapMen = 1
	svc, _ := newTestService(e)

	if _, err := svc.Submit("rooftop-social", CategoryMen, alice, ""); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if _, err := svc.Submit("rooftop-social", CategoryMen, bob, ""); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Submit() error = %v, want ErrCapacityExceeded", err)
	}
}

func TestSubmitDeclinedFreesSlot(t *testing.T) {
	e := publicEvent()
	e.CapMen = 1
	svc, repo := newTestService(e)

	first, err := svc.Submit("rooftop-social", CategoryMen, alice, "")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	// decline directly: a declined RSVP no longer holds the slot
	if err := repo.UpdateStatus(first.RSVP.ID, StatusDeclined); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Submit("rooftop-social", CategoryMen, bob, ""); err != nil {
		t.Errorf("slot freed by decline should accept a new RSVP, got %v", err)
	}
}

func TestSubmitUnauthenticated(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	if _, err := svc.Submit("rooftop-social", CategoryMen, Requester{}, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Submit() error = %v, want ErrUnauthenticated", err)
	}
}

func TestSubmitInvalidCategory(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	if _, err := svc.Submit("rooftop-social", "robots", alice, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("Submit() error = %v, want ErrValidation", err)
	}
}

func TestSubmitUnknownEvent(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	if _, err := svc.Submit("no-such-event", CategoryMen, alice, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Submit() error = %v, want ErrNotFound", err)
	}
}

func TestSubmitIssuesToken(t *testing.T) {
	svc, _ := newTestService(publicEvent())

	res, err := svc.Submit("rooftop-social", CategoryMen, alice, "")
	if err != nil {
		t.Fatal(err)
	}
	if !tokenPattern.MatchString(res.RSVP.CheckinToken) {
		t.Errorf("check-in token %q is not 32 lowercase hex chars", res.RSVP.CheckinToken)
	}
}

// =============================
// Moderation
// =============================

func TestUpdateStatusByHost(t *testing.T) {
	svc, _ := newTestService(vettedEvent())
	res, _ := svc.Submit("vetted-dinner", CategoryMen, bob, "")

	host := Reviewer{UserID: 9, Email: "HOST@X.COM"}
	rec, err := svc.UpdateStatus(res.RSVP.ID, StatusApproved, host, "")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if rec.Status != StatusApproved {
		t.Errorf("status = %s, want approved", rec.Status)
	}
}

func TestUpdateStatusByAdmin(t *testing.T) {
	svc, _ := newTestService(vettedEvent())
	res, _ := svc.Submit("vetted-dinner", CategoryMen, bob, "")

	admin := Reviewer{UserID: 99, Email: "ops@platform.com", IsAdmin: true}
	if _, err := svc.UpdateStatus(res.RSVP.ID, StatusDeclined, admin, ""); err != nil {
		t.Fatalf("admin should be able to moderate, got %v", err)
	}
}

func TestUpdateStatusByStrangerForbidden(t *testing.T) {
	svc, _ := newTestService(vettedEvent())
	res, _ := svc.Submit("vetted-dinner", CategoryMen, bob, "")

	stranger := Reviewer{UserID: 50, Email: "stranger@x.com"}
	if _, err := svc.UpdateStatus(res.RSVP.ID, StatusApproved, stranger, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateStatus() error = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatusOneWay(t *testing.T) {
	svc, _ := newTestService(vettedEvent())
	res, _ := svc.Submit("vetted-dinner", CategoryMen, bob, "")

	host := Reviewer{UserID: 9, Email: "host@x.com"}
	if _, err := svc.UpdateStatus(res.RSVP.ID, StatusDeclined, host, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(res.RSVP.ID, StatusApproved, host, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("declined RSVP must not be re-approved, got %v", err)
	}
}

func TestUpdateStatusRejectsBadValue(t *testing.T) {
	svc, _ := newTestService(vettedEvent())
	res, _ := svc.Submit("vetted-dinner", CategoryMen, bob, "")

	host := Reviewer{UserID: 9, Email: "host@x.com"}
	if _, err := svc.UpdateStatus(res.RSVP.ID, "pending", host, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateStatus() error = %v, want ErrValidation", err)
	}
}

// =============================
// Check-in
// =============================

func TestCheckinRedeemsOnce(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	res, _ := svc.Submit("rooftop-social", CategoryMen, alice, "")
	token := res.RSVP.CheckinToken

	doorman := Requester{UserID: 7, Email: "door@x.com"}
	rec, err := svc.Checkin(token, "rooftop-social", doorman, "")
	if err != nil {
		t.Fatalf("first Checkin() error = %v", err)
	}
	if rec.ConsumedAt == nil {
		t.Error("consumed_at must be set on first redemption")
	}

	if _, err := svc.Checkin(token, "rooftop-social", doorman, ""); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("second Checkin() error = %v, want ErrAlreadyRedeemed", err)
	}
}

func TestCheckinWrongEventForbidden(t *testing.T) {
	svc, _ := newTestService(publicEvent(), vettedEvent())
	res, _ := svc.Submit("rooftop-social", CategoryMen, alice, "")

	doorman := Requester{UserID: 7, Email: "door@x.com"}
	if _, err := svc.Checkin(res.RSVP.CheckinToken, "vetted-dinner", doorman, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("Checkin() error = %v, want ErrForbidden", err)
	}
}

func TestCheckinUnknownToken(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	doorman := Requester{UserID: 7, Email: "door@x.com"}
	if _, err := svc.Checkin("deadbeefdeadbeefdeadbeefdeadbeef", "rooftop-social", doorman, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Checkin() error = %v, want ErrNotFound", err)
	}
}

func TestCheckinUnauthenticated(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	if _, err := svc.Checkin("anything", "rooftop-social", Requester{}, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Checkin() error = %v, want ErrUnauthenticated", err)
	}
}

// =============================
// Queries
// =============================

func TestListForEventAuthorization(t *testing.T) {
	svc, _ := newTestService(vettedEvent())
	svc.Submit("vetted-dinner", CategoryMen, bob, "")

	if _, err := svc.ListForEvent("vetted-dinner", Reviewer{Email: "stranger@x.com"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger listing RSVPs: error = %v, want ErrForbidden", err)
	}

	recs, err := svc.ListForEvent("vetted-dinner", Reviewer{Email: "host@x.com"})
	if err != nil {
		t.Fatalf("host listing RSVPs: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("got %d RSVPs, want 1", len(recs))
	}
}

func TestStatusFor(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	svc.Submit("rooftop-social", CategoryMen, alice, "")

	if got := svc.StatusFor("rooftop-social", alice.UserID); got != StatusApproved {
		t.Errorf("StatusFor = %q, want approved", got)
	}
	if got := svc.StatusFor("rooftop-social", 999); got != "" {
		t.Errorf("StatusFor without RSVP = %q, want empty", got)
	}
}

func TestGetOwned(t *testing.T) {
	svc, _ := newTestService(publicEvent())
	res, _ := svc.Submit("rooftop-social", CategoryMen, alice, "")

	if _, err := svc.GetOwned(res.RSVP.ID, bob.UserID); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetOwned by non-owner: error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetOwned(res.RSVP.ID, alice.UserID); err != nil {
		t.Errorf("GetOwned by owner: %v", err)
	}
}
