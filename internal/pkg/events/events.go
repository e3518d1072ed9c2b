package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"crm/internal/monitoring"
)

const publishTimeout = 5 * time.Second

const (
	LeadCreated       = "lead.created"
	LeadStatusUpdated = "lead.status_updated"
	LeadUpdated       = "lead.updated"
	NoteCreated       = "note.created"
	NoteDeleted       = "note.deleted"
)

// Event is the envelope written to the broker. Key orders events per lead.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with the current time.
func New(eventType string, key int64, payload any) Event {
	return Event{
		Type:       eventType,
		Key:        strconv.FormatInt(key, 10),
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit hands e to the publisher without failing the caller. The request
// context's cancellation is dropped so a client hang-up does not lose the event.
func Emit(ctx context.Context, p Publisher, e Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, e); err != nil {
		monitoring.EventsPublished.WithLabelValues(e.Type, "error").Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"event": e.Type,
			"key":   e.Key,
		}).Warn("failed to publish event")
		return
	}
	monitoring.EventsPublished.WithLabelValues(e.Type, "accepted").Inc()
}

// KafkaPublisher writes events to a single topic. Writes are asynchronous:
// Publish only queues the message and delivery is reported to Completion.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafka checks that the first broker answers before returning a publisher.
func NewKafka(ctx context.Context, brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return nil, fmt.Errorf("failed to connect to kafka: %w", err)
	}
	_ = conn.Close()

	return newKafkaPublisher(brokers, topic), nil
}

func newKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	k := &KafkaPublisher{}
	k.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             k.completed,
	}
	return k
}

// completed runs on the writer's goroutine once a batch is acknowledged or fails.
func (k *KafkaPublisher) completed(messages []kafka.Message, err error) {
	result := "delivered"
	if err != nil {
		result = "failed"
	}
	for _, m := range messages {
		eventType := headerValue(m, "type")
		monitoring.EventsPublished.WithLabelValues(eventType, result).Inc()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"event": eventType,
				"key":   string(m.Key),
			}).Warn("event delivery failed")
		}
	}
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (k *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
}

// Close flushes queued messages before returning.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error { return nil }
