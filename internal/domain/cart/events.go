// internal/domain/cart/events.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ChangeReason classifies a cart change notification
type ChangeReason string

const (
	ReasonAdd    ChangeReason = "add"
	ReasonUpdate ChangeReason = "update"
	ReasonRemove ChangeReason = "remove"
	ReasonClear  ChangeReason = "clear"
)

// Event is a fire-and-forget cart change notification. It carries no
// cart state: consumers re-fetch the authoritative cart on receipt.
type Event struct {
	CartKey  string       `json:"cart_key"`
	Reason   ChangeReason `json:"reason"`
	QtyDelta int          `json:"qty_delta,omitempty"`
	At       time.Time    `json:"at"`
}

// Broadcaster publishes cart change events. Publishing is best effort:
// a lost event degrades freshness, never correctness.
type Broadcaster interface {
	Publish(ctx context.Context, event Event)
}

// channelFor returns the pub/sub channel for one cart owner
func channelFor(cartKey string) string {
	return fmt.Sprintf("cart:events:%s", cartKey)
}

// RedisBroadcaster publishes cart events on Redis pub/sub, one channel
// per cart owner
type RedisBroadcaster struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisBroadcaster creates a Redis-backed cart event broadcaster
func NewRedisBroadcaster(client *redis.Client, logger *logrus.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: client,
		logger: logger,
	}
}

// Publish sends the event to the owner's channel. Failures are logged
// and swallowed.
func (b *RedisBroadcaster) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.WithError(err).Warn("failed to encode cart event")
		return
	}

	if err := b.client.Publish(ctx, channelFor(event.CartKey), payload).Err(); err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"cart_key": event.CartKey,
			"reason":   event.Reason,
		}).Warn("failed to publish cart event")
	}
}

// Subscribe listens for cart events for one owner. The returned channel
// closes when ctx is cancelled; callers that lose the subscription
// should re-fetch the cart and subscribe again.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, cartKey string) <-chan Event {
	sub := b.client.Subscribe(ctx, channelFor(cartKey))
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.WithError(err).Warn("failed to decode cart event")
					continue
				}
				select {
				case events <- event:
				default:
					// Slow consumer, drop. State is re-fetched anyway.
				}
			}
		}
	}()

	return events
}
