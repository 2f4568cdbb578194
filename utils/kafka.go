package utils

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var rsvpWriter *kafka.Writer

func kafkaBrokers() []string {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		raw = "localhost:9092"
	}
	return strings.Split(raw, ",")
}

func rsvpTopic() string {
	topic := os.Getenv("KAFKA_RSVP_TOPIC")
	if topic == "" {
		topic = "rsvp-events"
	}
	return topic
}

// InitializeKafka sets up the producer for the RSVP event stream
func InitializeKafka() {
	rsvpWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers()...),
		Topic:        rsvpTopic(),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	log.Printf("✅ Kafka producer ready (topic=%s, brokers=%v)", rsvpTopic(), kafkaBrokers())
}

// PublishRSVPEvent writes one lifecycle message, keyed by event slug so
// per-event ordering is preserved. Best effort: a broker outage must not
// fail the request that triggered it.
func PublishRSVPEvent(payload interface{}, eventSlug string) {
	if rsvpWriter == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ Kafka marshal error: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rsvpWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventSlug),
		Value: data,
	}); err != nil {
		log.Printf("⚠️ Kafka publish failed: %v", err)
	}
}

// NewRSVPReader returns a consumer for the RSVP event stream
func NewRSVPReader(groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers(),
		Topic:    rsvpTopic(),
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
