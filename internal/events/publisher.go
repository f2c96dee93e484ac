package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
)

type EventType string

const (
	EventTypeAgreementCreated EventType = "rental.agreement_created"
	EventTypeToolReturned     EventType = "rental.tool_returned"
	EventTypeRentalOverdue    EventType = "rental.overdue"
)

// RentalEvent is the envelope written to the rentals topic
type RentalEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	RentalID  string          `json:"rental_id"`
	ToolCode  string          `json:"tool_code"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.RentalsTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, cfg.RentalsTopic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, now: time.Now}
}

func (p *KafkaPublisher) PublishAgreementCreated(ctx context.Context, rental *domain.Rental) error {
	return p.publishRental(ctx, EventTypeAgreementCreated, rental)
}

func (p *KafkaPublisher) PublishToolReturned(ctx context.Context, rental *domain.Rental) error {
	return p.publishRental(ctx, EventTypeToolReturned, rental)
}

func (p *KafkaPublisher) PublishRentalOverdue(ctx context.Context, rental *domain.Rental) error {
	return p.publishRental(ctx, EventTypeRentalOverdue, rental)
}

func (p *KafkaPublisher) publishRental(ctx context.Context, eventType EventType, rental *domain.Rental) error {
	data, err := json.Marshal(rental)
	if err != nil {
		return err
	}
	event := &RentalEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		RentalID:  rental.Agreement.ID,
		ToolCode:  rental.Agreement.ToolCode,
		Data:      data,
		Timestamp: p.now().UTC(),
	}
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, event *RentalEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.ToolCode),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	logger.ExternalServiceCall("kafka", string(event.Type), "topic", p.topic, "rental_id", event.RentalID)
	err = p.writer.WriteMessages(ctx, msg)
	logger.ExternalServiceResult("kafka", string(event.Type), err, "event_id", event.ID)
	return err
}

func (p *KafkaPublisher) Close() error {
	logger.Info("Closing Kafka publisher", "topic", p.topic)
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishAgreementCreated(ctx context.Context, rental *domain.Rental) error {
	return nil
}

func (NoopPublisher) PublishToolReturned(ctx context.Context, rental *domain.Rental) error {
	return nil
}

func (NoopPublisher) PublishRentalOverdue(ctx context.Context, rental *domain.Rental) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// MockEventPublisher records events for tests
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []*RentalEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make([]*RentalEvent, 0)}
}

func (m *MockEventPublisher) record(t EventType, rental *domain.Rental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, &RentalEvent{
		Type:     t,
		RentalID: rental.Agreement.ID,
		ToolCode: rental.Agreement.ToolCode,
	})
	return nil
}

func (m *MockEventPublisher) PublishAgreementCreated(ctx context.Context, rental *domain.Rental) error {
	return m.record(EventTypeAgreementCreated, rental)
}

func (m *MockEventPublisher) PublishToolReturned(ctx context.Context, rental *domain.Rental) error {
	return m.record(EventTypeToolReturned, rental)
}

func (m *MockEventPublisher) PublishRentalOverdue(ctx context.Context, rental *domain.Rental) error {
	return m.record(EventTypeRentalOverdue, rental)
}

// Types returns the recorded event types in order
func (m *MockEventPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]EventType, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
