// Package notification delivers order notifications to users.
package notification

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Event is the JSON payload published for every notification.
type Event struct {
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	ActionURL string            `json:"action_url,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// KafkaDispatcher publishes notifications keyed by user id, so one user's
// notifications stay ordered within a partition.
type KafkaDispatcher struct {
	w     messageWriter
	topic string
	now   func() time.Time
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return newKafkaDispatcherWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
	}, topic)
}

func newKafkaDispatcherWithWriter(w messageWriter, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{w: w, topic: topic, now: time.Now}
}

func (d *KafkaDispatcher) Notify(ctx context.Context, n ports.Notification) error {
	value, err := json.Marshal(Event{
		UserID:    n.UserID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		ActionURL: n.ActionURL,
		Metadata:  n.Metadata,
		CreatedAt: d.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "encode notification")
	}

	if err = d.w.WriteMessages(ctx, kafka.Message{
		Topic: d.topic,
		Key:   []byte(n.UserID.String()),
		Value: value,
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

// Close flushes pending writes.
func (d *KafkaDispatcher) Close() error {
	if c, ok := d.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
