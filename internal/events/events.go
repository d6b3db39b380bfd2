package events

import "context"

// Event types published on the panel stream.
const (
	EventUserBanned          = "user_banned"
	EventSubscriptionRevoked = "subscription_revoked"
	EventAPIKeyRegenerated   = "api_key_regenerated"
	EventSessionActivated    = "session_activated"
)

// StreamPanel is the redis channel all panel events go to.
const StreamPanel = "events:panel"

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

// NopPublisher drops every event. Used in tests and in tools that have
// no redis at hand.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
