package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventSessionStarted     EventType = "SESSION_STARTED"
	EventSessionEnded       EventType = "SESSION_ENDED"
	EventSessionExpired     EventType = "SESSION_EXPIRED"
	EventCredentialsChanged EventType = "CREDENTIALS_CHANGED"
	EventPageChanged        EventType = "PAGE_CHANGED"
	EventTickerUpdate       EventType = "TICKER_UPDATE"
	EventTickerError        EventType = "TICKER_ERROR"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber // Subscribers to all events
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers. Subscribers run synchronously
// in publish order on the caller's goroutine.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	subs := append([]Subscriber(nil), eb.subscribers[event.Type]...)
	all := append([]Subscriber(nil), eb.allSubs...)
	eb.mu.RUnlock()

	// Set timestamp if not provided
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, sub := range subs {
		sub(event)
	}
	for _, sub := range all {
		sub(event)
	}
}

// PublishCredentialsChanged publishes a credential store change notification
func (eb *EventBus) PublishCredentialsChanged(key string) {
	eb.Publish(Event{
		Type: EventCredentialsChanged,
		Data: map[string]interface{}{
			"key": key,
		},
	})
}

// PublishSessionExpired publishes an externally forced logout
func (eb *EventBus) PublishSessionExpired(reason string) {
	eb.Publish(Event{
		Type: EventSessionExpired,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishPageChanged publishes a navigation transition
func (eb *EventBus) PublishPageChanged(from, to string) {
	eb.Publish(Event{
		Type: EventPageChanged,
		Data: map[string]interface{}{
			"from": from,
			"to":   to,
		},
	})
}

// PublishTickerUpdate publishes a market feed refresh
func (eb *EventBus) PublishTickerUpdate(quote string, count int) {
	eb.Publish(Event{
		Type: EventTickerUpdate,
		Data: map[string]interface{}{
			"quote": quote,
			"count": count,
		},
	})
}
