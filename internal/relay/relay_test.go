package relay

import (
	"encoding/json"
	"testing"
)

func TestStampMessageAssignsServerFields(t *testing.T) {
	in := Frame{
		Type:      TypeEventMessage,
		EventSlug: "rooftop-social",
		Name:      "Alice",
		Text:      "running late!",
		ID:        "client-forged-id",
		Time:      "1999-01-01T00:00:00Z",
	}

	out := stampMessage(in)

	if out.ID == "" || out.ID == in.ID {
		t.Error("id must be server-assigned, not taken from the client")
	}
	if out.Time == "" || out.Time == in.Time {
		t.Error("time must be server-assigned, not taken from the client")
	}
	if out.Name != "Alice" || out.Text != "running late!" || out.EventSlug != "rooftop-social" {
		t.Errorf("payload fields must pass through unchanged: %+v", out)
	}
}

func TestStampMessageUniqueIDs(t *testing.T) {
	a := stampMessage(Frame{EventSlug: "x"})
	b := stampMessage(Frame{EventSlug: "x"})
	if a.ID == b.ID {
		t.Error("two broadcasts must get distinct ids")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	raw := []byte(`{"type":"eventStatus","eventSlug":"rooftop-social","status":"doors open"}`)

	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != TypeEventStatus || frame.EventSlug != "rooftop-social" || frame.Status != "doors open" {
		t.Errorf("unexpected frame: %+v", frame)
	}
}

func TestStatusKey(t *testing.T) {
	if got := statusKey("rooftop-social"); got != "event:status:rooftop-social" {
		t.Errorf("statusKey = %q", got)
	}
}
