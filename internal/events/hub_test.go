package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub()

	sub, backlog, err := hub.Subscribe(TopicDeliveryCreated)
	require.NoError(t, err)
	defer sub.Close()
	assert.Empty(t, backlog)

	hub.Publish(Event{
		Topic:      TopicDeliveryCreated,
		ResellerID: "10",
		Payload:    map[string]any{"quantity": int64(5)},
		OccurredAt: time.Now(),
	})

	select {
	case event := <-sub.Events():
		assert.Equal(t, TopicDeliveryCreated, event.Topic)
		assert.Equal(t, "10", event.ResellerID)
	default:
		t.Fatal("expected event on subscriber channel")
	}
}

func TestHub_BacklogReplaysToLateSubscribers(t *testing.T) {
	hub := NewHub()

	// The stream only exists once someone subscribed to the topic.
	first, _, err := hub.Subscribe(TopicCashCutCommitted)
	require.NoError(t, err)
	defer first.Close()

	for i := 0; i < 3; i++ {
		hub.Publish(Event{Topic: TopicCashCutCommitted, ResellerID: "10"})
	}

	_, backlog, err := hub.Subscribe(TopicCashCutCommitted)
	require.NoError(t, err)
	assert.Len(t, backlog, 3)
}

func TestHub_BacklogIsBounded(t *testing.T) {
	hub := NewHub()

	first, _, err := hub.Subscribe(TopicDeliveryCreated)
	require.NoError(t, err)
	defer first.Close()

	for i := 0; i < DefaultBufferSize+20; i++ {
		hub.Publish(Event{Topic: TopicDeliveryCreated})
	}

	_, backlog, err := hub.Subscribe(TopicDeliveryCreated)
	require.NoError(t, err)
	assert.Len(t, backlog, DefaultBufferSize)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	sub, _, err := hub.Subscribe(TopicDeliveryCreated)
	require.NoError(t, err)
	defer sub.Close()

	// Overflow the subscriber channel without draining it. Publish must
	// not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultSubscriberBuffer*2; i++ {
			hub.Publish(Event{Topic: TopicDeliveryCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Len(t, sub.Events(), DefaultSubscriberBuffer)
}

func TestHub_TopicIsolation(t *testing.T) {
	hub := NewHub()

	deliveries, _, err := hub.Subscribe(TopicDeliveryCreated)
	require.NoError(t, err)
	defer deliveries.Close()
	cuts, _, err := hub.Subscribe(TopicCashCutCommitted)
	require.NoError(t, err)
	defer cuts.Close()

	hub.Publish(Event{Topic: TopicCashCutCommitted, ResellerID: "10"})

	assert.Len(t, cuts.Events(), 1)
	assert.Empty(t, deliveries.Events())
}

func TestHub_NilAndInvalidUsage(t *testing.T) {
	var nilHub *Hub
	nilHub.Publish(Event{Topic: TopicDeliveryCreated}) // must not panic

	_, _, err := nilHub.Subscribe(TopicDeliveryCreated)
	assert.Error(t, err)

	hub := NewHub()
	_, _, err = hub.Subscribe("   ")
	assert.Error(t, err)

	// Publishing to a topic nobody ever subscribed to is a no-op.
	hub.Publish(Event{Topic: "unknown.topic"})
	hub.Publish(Event{Topic: ""})
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub, _, err := hub.Subscribe(TopicDeliveryCreated)
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	// Publishing after close must not panic on the removed channel.
	hub.Publish(Event{Topic: TopicDeliveryCreated})
}
