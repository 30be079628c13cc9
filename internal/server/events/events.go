// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/logging"
)

// Routing keys.
const (
	UserRegistered         = "user.registered"
	AnnouncementCreated    = "announcement.created"
	ComplaintCreated       = "complaint.created"
	ComplaintStatusChanged = "complaint.status_changed"
	LostFoundCreated       = "lostfound.created"
)

// Event is the JSON envelope of every published message.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Emitter wraps a Publisher for callers that must not fail on publish
// errors: failures are logged and swallowed.
type Emitter struct {
	pub    Publisher
	logger logging.Logger
	now    func() time.Time
}

func NewEmitter(pub Publisher, logger logging.Logger) *Emitter {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Emitter{pub: pub, logger: logger, now: time.Now}
}

func (e *Emitter) Emit(ctx context.Context, routingKey string, data any) {
	ev := Event{Type: routingKey, OccurredAt: e.now().UTC(), Data: data}
	if err := e.pub.Publish(ctx, routingKey, ev); err != nil {
		e.logger.Warn(ctx, "event publish failed", "routing_key", routingKey, "error", err)
	}
}
