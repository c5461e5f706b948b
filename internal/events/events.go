// Package events publishes folder, snip and highlight lifecycle changes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"snipdesk/internal/config"
)

const (
	FolderCreated   = "FOLDER_CREATED"
	FolderDeleted   = "FOLDER_DELETED"
	SnipCreated     = "SNIP_CREATED"
	SnipDeleted     = "SNIP_DELETED"
	HighlightsSaved = "HIGHLIGHTS_SAVED"
)

// Event is the JSON payload of one change.
type Event struct {
	Type       string    `json:"event_type"`
	ResourceID string    `json:"resource_id"`
	Folder     string    `json:"folder,omitempty"`
	Count      int       `json:"count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers events. Publish must not be called after Close.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to one topic keyed by resource id.
type KafkaPublisher struct {
	w   messageWriter
	now func() time.Time
}

// NewKafkaPublisher creates a publisher for cfg.Topic on cfg.Brokers.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  10 * time.Second,
		},
		now: time.Now,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = p.now().UTC()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ResourceID),
		Value: value,
		Time:  e.Timestamp,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
