// Package events publishes domain events to Google Cloud Pub/Sub.
package events

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.opentelemetry.io/otel"
)

// Publisher sends one event and returns the broker-assigned message id.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) (string, error)
	Close() error
}

// NopPublisher drops every event. It is used when no topic is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) (string, error) { return "", nil }
func (NopPublisher) Close() error                                         { return nil }

type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPubSubPublisher(ctx context.Context, projectID, topicID string) (*PubSubPublisher, error) {
	if projectID == "" || topicID == "" {
		return nil, fmt.Errorf("pubsub project and topic are required")
	}

	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return NewPubSubPublisherFromClient(client, topicID), nil
}

// NewPubSubPublisherFromClient reuses an existing client, e.g. one dialled at the emulator.
func NewPubSubPublisherFromClient(client *pubsub.Client, topicID string) *PubSubPublisher {
	return &PubSubPublisher{client: client, topic: client.Topic(topicID)}
}

// Publish marshals payload to JSON, tags it with the event type and the current trace
// context, and blocks until the broker acknowledges it.
func (p *PubSubPublisher) Publish(ctx context.Context, eventType string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	msg := &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event_type": eventType},
	}
	otel.GetTextMapPropagator().Inject(ctx, &attributeCarrier{attrs: msg.Attributes})

	id, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", eventType, err)
	}
	return id, nil
}

// Close flushes pending messages and releases the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// attributeCarrier implements propagation.TextMapCarrier over message attributes.
type attributeCarrier struct {
	attrs map[string]string
}

func (c *attributeCarrier) Get(key string) string { return c.attrs[key] }

func (c *attributeCarrier) Set(key, value string) { c.attrs[key] = value }

func (c *attributeCarrier) Keys() []string {
	keys := make([]string, 0, len(c.attrs))
	for k := range c.attrs {
		keys = append(keys, k)
	}
	return keys
}
