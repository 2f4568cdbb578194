package rsvp

import (
	"testing"

	"github.com/velvetsocial/community-backend/internal/event"
)

func TestCountExcludesDeclined(t *testing.T) {
	rsvps := []RSVP{
		{Category: CategoryMen, Status: StatusPending},
		{Category: CategoryMen, Status: StatusApproved},
		{Category: CategoryMen, Status: StatusDeclined},
		{Category: CategoryWomen, Status: StatusApproved},
	}

	snap := Count(rsvps)
	if snap.Men != 2 {
		t.Errorf("men = %d, want 2", snap.Men)
	}
	if snap.Women != 1 {
		t.Errorf("women = %d, want 1", snap.Women)
	}
	if snap.Couples != 0 {
		t.Errorf("couples = %d, want 0", snap.Couples)
	}
}

func TestCountEmpty(t *testing.T) {
	snap := Count(nil)
	if snap.Men != 0 || snap.Women != 0 || snap.Couples != 0 {
		t.Errorf("empty set must count to zero, got %+v", snap)
	}
}

func TestPendingHoldsSlot(t *testing.T) {
	rsvps := []RSVP{
		{Category: CategoryCouples, Status: StatusPending},
		{Category: CategoryCouples, Status: StatusPending},
	}
	if got := Count(rsvps).Couples; got != 2 {
		t.Errorf("pending RSVPs must hold slots, got %d", got)
	}
}

func TestIsFull(t *testing.T) {
	e := &event.Event{CapMen: 2, CapWomen: 1, CapCouples: 0}
	rsvps := []RSVP{
		{Category: CategoryMen, Status: StatusApproved},
		{Category: CategoryMen, Status: StatusDeclined},
		{Category: CategoryWomen, Status: StatusPending},
	}

	tests := []struct {
		category string
		want     bool
	}{
		{CategoryMen, false},    // 1 of 2
		{CategoryWomen, true},   // 1 of 1
		{CategoryCouples, true}, // zero ceiling means no slots
	}
	for _, tt := range tests {
		if got := IsFull(e, tt.category, rsvps); got != tt.want {
			t.Errorf("IsFull(%s) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestSnapshotFor(t *testing.T) {
	snap := CapacitySnapshot{Men: 3, Women: 2, Couples: 1}
	if snap.For("men") != 3 || snap.For("women") != 2 || snap.For("couples") != 1 {
		t.Errorf("For() mismatch: %+v", snap)
	}
	if snap.For("unknown") != 0 {
		t.Error("unknown category must count as 0")
	}
}
