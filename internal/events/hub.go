package events

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	TopicDeliveryCreated   = "delivery.created"
	TopicCashCutCommitted  = "cashcut.committed"
	TopicCommissionUpdated = "commission.updated"
)

const (
	DefaultBufferSize       = 50
	DefaultSubscriberBuffer = 16
)

// Event is what the core publishes for the presentation layer. Delivery is
// best-effort: slow subscribers drop events rather than blocking commits.
type Event struct {
	Topic      string         `json:"topic"`
	ResellerID string         `json:"reseller_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	bufferSize       int
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	buffer []Event
	subs   map[uint64]chan Event
	nextID uint64
}

type Subscription struct {
	hub   *Hub
	topic string
	id    uint64
	ch    chan Event
	once  sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[string]*stream),
		bufferSize:       DefaultBufferSize,
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	topic := strings.TrimSpace(event.Topic)
	if topic == "" {
		return
	}
	h.mu.RLock()
	stream := h.streams[topic]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	stream.buffer = append(stream.buffer, event)
	if len(stream.buffer) > h.bufferSize {
		stream.buffer = stream.buffer[len(stream.buffer)-h.bufferSize:]
	}
	subs := make([]chan Event, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) Subscribe(topic string) (*Subscription, []Event, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, nil, errors.New("invalid_topic")
	}

	stream := h.ensureStream(topic)
	stream.mu.Lock()
	if stream.subs == nil {
		stream.subs = make(map[uint64]chan Event)
	}
	id := stream.nextID
	stream.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	stream.subs[id] = ch
	buffer := append([]Event(nil), stream.buffer...)
	stream.mu.Unlock()

	return &Subscription{
		hub:   h,
		topic: topic,
		id:    id,
		ch:    ch,
	}, buffer, nil
}

func (h *Hub) ensureStream(topic string) *stream {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.streams[topic]
	if !ok {
		s = &stream{}
		h.streams[topic] = s
	}
	return s
}

func (s *Subscription) Events() <-chan Event {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.hub.mu.RLock()
		stream := s.hub.streams[s.topic]
		s.hub.mu.RUnlock()
		if stream == nil {
			return
		}
		stream.mu.Lock()
		delete(stream.subs, s.id)
		stream.mu.Unlock()
		close(s.ch)
	})
}
