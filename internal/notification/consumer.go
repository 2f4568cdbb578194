package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/velvetsocial/community-backend/internal/rsvp"
	"github.com/velvetsocial/community-backend/utils"
)

// StartKafkaConsumer reads the RSVP lifecycle stream and fans each
// record out as notifications. Runs until ctx is cancelled.
func StartKafkaConsumer(ctx context.Context, svc Service) {
	reader := utils.NewRSVPReader("notification-fanout")
	defer reader.Close()

	log.Println("✅ notification consumer started")

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("🔄 notification consumer stopped")
				return
			}
			log.Printf("⚠️ notification consumer read error: %v", err)
			continue
		}

		var msg rsvp.Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("⚠️ notification consumer: bad payload: %v", err)
			continue
		}

		dispatch(svc, msg)
	}
}

func dispatch(svc Service, msg rsvp.Message) {
	switch msg.Type {
	case "rsvp.submitted":
		if msg.HostEmail == "" {
			return
		}
		svc.NotifyByEmail(msg.HostEmail, msg.EventSlug, "rsvp_received",
			"New RSVP request",
			fmt.Sprintf("%s requested a spot (%s) at %s", msg.UserEmail, msg.Category, msg.EventTitle))

	case "rsvp.approved", "rsvp.declined":
		svc.Notify(msg.UserID, msg.EventSlug, "rsvp_decision",
			fmt.Sprintf("Your RSVP was %s", msg.Status),
			fmt.Sprintf("Your request for %s is now %s.", msg.EventTitle, msg.Status))

	case "rsvp.checkedin":
		svc.Notify(msg.UserID, msg.EventSlug, "checkin",
			"Checked in",
			"Your check-in token was redeemed at the door.")
	}
}
