// Package kafka publishes hazard lifecycle events to a feed topic so
// downstream consumers (dashboards, dispatch systems) can react to changes
// without polling the store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
)

// Feed event types.
const (
	EventHazardCreated  = "hazard.created"
	EventHazardDeleted  = "hazard.deleted"
	EventHazardsCleared = "hazards.cleared"
)

// FeedEvent is the message published for each hazard lifecycle change.
// Hazard is set for creations, ID for single deletions; clears carry neither.
type FeedEvent struct {
	Type   string               `json:"type"`
	Hazard *domain.HazardRecord `json:"hazard,omitempty"`
	ID     string               `json:"id,omitempty"`
	At     time.Time            `json:"at"`
}

// FeedPublisher produces hazard feed events to a Kafka topic.
type FeedPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewFeedPublisher creates a producer for the hazard feed topic.
func NewFeedPublisher(brokers []string, topic string, logger *slog.Logger) *FeedPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &FeedPublisher{writer: w, logger: logger}
}

// HazardCreated publishes a creation event keyed by the new record's id.
func (p *FeedPublisher) HazardCreated(ctx context.Context, rec domain.HazardRecord) error {
	return p.publish(ctx, FeedEvent{
		Type:   EventHazardCreated,
		Hazard: &rec,
		ID:     rec.ID,
		At:     time.Now().UTC(),
	})
}

// HazardDeleted publishes a single-record deletion event.
func (p *FeedPublisher) HazardDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, FeedEvent{
		Type: EventHazardDeleted,
		ID:   id,
		At:   time.Now().UTC(),
	})
}

// HazardsCleared publishes a collection-wide clear event.
func (p *FeedPublisher) HazardsCleared(ctx context.Context) error {
	return p.publish(ctx, FeedEvent{
		Type: EventHazardsCleared,
		At:   time.Now().UTC(),
	})
}

func (p *FeedPublisher) publish(ctx context.Context, event FeedEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *FeedPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a FeedEvent into a Kafka message. Events with
// no record id (clears) get an empty key and fall to the balancer.
func serializeToMessage(event FeedEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feed event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "emitted_at", Value: []byte(event.At.Format(time.RFC3339))},
		},
	}, nil
}
