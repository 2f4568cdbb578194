package relay

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/olahol/melody"

	"github.com/velvetsocial/community-backend/internal/event"
	"github.com/velvetsocial/community-backend/utils"
)

const (
	sessionSlugKey = "event_slug"
	sessionNameKey = "display_name"

	// last status per event survives relay restarts but expires on its
	// own; the relay itself keeps nothing in process memory
	statusTTL = 6 * time.Hour
)

// Inbound frame types
const (
	TypeJoinEvent    = "joinEvent"
	TypeEventStatus  = "eventStatus"
	TypeEventMessage = "eventMessage"
)

// Frame is the envelope for every message on the live channel. Id and
// Time are server-assigned on broadcasts, never trusted from clients.
type Frame struct {
	Type      string `json:"type"`
	EventSlug string `json:"eventSlug"`
	Status    string `json:"status,omitempty"`
	Name      string `json:"name,omitempty"`
	Text      string `json:"text,omitempty"`
	ID        string `json:"id,omitempty"`
	Time      string `json:"time,omitempty"`
}

// Relay fans event status and chat out to everyone in the event's room.
// Messages are ephemeral: late joiners get only the cached last status.
type Relay struct {
	m      *melody.Melody
	events event.Repository
}

func New(events event.Repository) *Relay {
	r := &Relay{m: melody.New(), events: events}

	r.m.HandleMessage(r.handleMessage)
	r.m.HandleDisconnect(func(s *melody.Session) {
		if slug, ok := s.Get(sessionSlugKey); ok {
			log.Printf("🔄 relay: session left room %v", slug)
		}
	})

	return r
}

// HandleRequest upgrades GET /ws/events to a websocket session
func (r *Relay) HandleRequest(c *gin.Context) {
	if err := r.m.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("⚠️ relay: upgrade failed: %v", err)
	}
}

func (r *Relay) handleMessage(s *melody.Session, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.EventSlug == "" {
		return
	}

	switch frame.Type {
	case TypeJoinEvent:
		r.join(s, frame)
	case TypeEventStatus:
		r.broadcastStatus(frame)
	case TypeEventMessage:
		r.broadcastMessage(frame)
	}
}

func (r *Relay) join(s *melody.Session, frame Frame) {
	s.Set(sessionSlugKey, frame.EventSlug)
	if frame.Name != "" {
		s.Set(sessionNameKey, frame.Name)
	}

	// replay the single cached last status so late joiners catch up
	if status, err := utils.GetToken(statusKey(frame.EventSlug)); err == nil && status != "" {
		out, _ := json.Marshal(Frame{
			Type:      TypeEventStatus,
			EventSlug: frame.EventSlug,
			Status:    status,
		})
		_ = s.Write(out)
	}
}

func (r *Relay) broadcastStatus(frame Frame) {
	if err := utils.SetToken(statusKey(frame.EventSlug), frame.Status, statusTTL); err != nil {
		log.Printf("⚠️ relay: failed to cache status for %s: %v", frame.EventSlug, err)
	}
	// best effort: the catalog shows the latest status too
	if r.events != nil {
		if err := r.events.UpdateLiveStatus(frame.EventSlug, frame.Status); err != nil {
			log.Printf("⚠️ relay: failed to store live status for %s: %v", frame.EventSlug, err)
		}
	}

	out, _ := json.Marshal(Frame{
		Type:      TypeEventStatus,
		EventSlug: frame.EventSlug,
		Status:    frame.Status,
	})
	r.toRoom(frame.EventSlug, out)
}

func (r *Relay) broadcastMessage(frame Frame) {
	out, _ := json.Marshal(stampMessage(frame))
	r.toRoom(frame.EventSlug, out)
}

func (r *Relay) toRoom(slug string, payload []byte) {
	err := r.m.BroadcastFilter(payload, func(s *melody.Session) bool {
		got, ok := s.Get(sessionSlugKey)
		return ok && got == slug
	})
	if err != nil {
		log.Printf("⚠️ relay: broadcast to %s failed: %v", slug, err)
	}
}

// stampMessage assigns the server-side id and timestamp to a chat frame
func stampMessage(frame Frame) Frame {
	return Frame{
		Type:      TypeEventMessage,
		EventSlug: frame.EventSlug,
		Name:      frame.Name,
		Text:      frame.Text,
		ID:        uuid.NewString(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	}
}

func statusKey(slug string) string {
	return fmt.Sprintf("event:status:%s", slug)
}
