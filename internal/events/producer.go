package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUser     = "user_events"
	TopicCart     = "cart_events"
	TopicCheckout = "checkout_events"
	TopicForm     = "form_events"
)

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func New(eventType string, data any) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultPublishTimeout caps one Publish call, retries included. Publishing
// runs on the request path after the write has been stored.
const DefaultPublishTimeout = 5 * time.Second

type Producer struct {
	writer  messageWriter
	timeout time.Duration
}

func NewProducer(brokers []string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, timeout: DefaultPublishTimeout}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	timeout := p.timeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                      { return nil }

type observed struct {
	Publisher
	onFailure func(topic string)
}

// Observe wraps p so onFailure is called with the topic of every failed publish.
func Observe(p Publisher, onFailure func(topic string)) Publisher {
	return observed{Publisher: p, onFailure: onFailure}
}

func (o observed) Publish(ctx context.Context, topic, key string, event any) error {
	err := o.Publisher.Publish(ctx, topic, key, event)
	if err != nil && o.onFailure != nil {
		o.onFailure(topic)
	}
	return err
}
