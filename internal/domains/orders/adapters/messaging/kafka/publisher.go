// Package kafka publishes order events to a Kafka topic as JSON envelopes
// keyed by order id, so every event for one order lands on one partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
	envelopeVersion    = 1
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Envelope is the wire format of every order event.
type Envelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	Version    int             `json:"version"`
	OrderID    int64           `json:"orderId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes order events to Kafka.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
	newID  func() string
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher builds an asynchronous writer for topic. Delivery failures are
// reported through the logger since the caller has already moved on.
func NewPublisher(brokers []string, topic string, opts ...Option) *Publisher {
	p := newPublisher(nil, opts...)
	p.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        true,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				p.logger.Error("order events not delivered", slog.Int("count", len(messages)), slog.String("error", err.Error()))
			}
		},
	}
	return p
}

func newPublisher(writer messageWriter, opts ...Option) *Publisher {
	p := &Publisher{
		writer: writer,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	if len(events) == 0 {
		return nil
	}
	messages := make([]kafkago.Message, 0, len(events))
	for _, event := range events {
		msg, err := p.encode(event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}
	return p.writer.WriteMessages(ctx, messages...)
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) encode(event domain.Event) (kafkago.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, err
	}
	envelope := Envelope{
		EventID:    p.newID(),
		EventType:  event.EventName(),
		Version:    envelopeVersion,
		OrderID:    event.AggregateID(),
		OccurredAt: event.OccurredAt().UTC(),
		Payload:    payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.AggregateID(), 10)),
		Value: value,
		Time:  envelope.OccurredAt,
		Headers: []kafkago.Header{
			{Key: HeaderEventType, Value: []byte(envelope.EventType)},
			{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(envelopeVersion))},
		},
	}, nil
}
