package config

import (
	"context"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/events"
	"github.com/akeren/waitlist-foundry/pkg/utils"
)

type EventsConfig struct {
	ProjectID string
	TopicID   string
}

func NewEventsConfig() *EventsConfig {
	return &EventsConfig{
		ProjectID: utils.FirstEnvTrimmed("PUBSUB_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		TopicID:   utils.GetEnvTrimmed("WAITLIST_EVENTS_TOPIC"),
	}
}

func (ec *EventsConfig) IsConfigured() bool {
	return ec.ProjectID != "" && ec.TopicID != ""
}

// NewPublisherOrNil returns nil unless both the project and the topic are set and the
// client could be created.
func (ec *EventsConfig) NewPublisherOrNil(ctx context.Context, logger *log.Logger) events.Publisher {
	if !ec.IsConfigured() {
		logger.Info("Signup events disabled (PUBSUB_PROJECT_ID or WAITLIST_EVENTS_TOPIC not set)")
		return nil
	}

	publisher, err := events.NewPubSubPublisher(ctx, ec.ProjectID, ec.TopicID)
	if err != nil {
		logger.Error("Failed to create Pub/Sub publisher; signup events disabled", "error", err)
		return nil
	}

	logger.Info("Signup events enabled", "project", ec.ProjectID, "topic", ec.TopicID)
	return publisher
}
