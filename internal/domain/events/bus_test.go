package events_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

var ts = time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

func TestPublish_CallsListenersInSubscriptionOrder(t *testing.T) {
	// Arrange
	bus := events.NewBus()
	var calls []string
	bus.Subscribe(func(events.GameEvent) { calls = append(calls, "first") })
	bus.Subscribe(func(events.GameEvent) { calls = append(calls, "second") })
	bus.Subscribe(func(events.GameEvent) { calls = append(calls, "third") })

	// Act
	bus.Publish(events.New(events.KindMarketChange, "drift", ts, 7))

	// Assert
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestPublish_NoBufferingForLateSubscribers(t *testing.T) {
	bus := events.NewBus()
	bus.Publish(events.New(events.KindMarketChange, "early", ts, 1))

	received := 0
	bus.Subscribe(func(events.GameEvent) { received++ })

	assert.Equal(t, 0, received)
}

func TestUnsubscribe_FromInsideListener(t *testing.T) {
	// Arrange
	bus := events.NewBus()
	count := 0
	var id events.Subscription
	id = bus.Subscribe(func(events.GameEvent) {
		count++
		bus.Unsubscribe(id)
	})

	// Act
	bus.Publish(events.New(events.KindQualityIssue, "one", ts, 1))
	bus.Publish(events.New(events.KindQualityIssue, "two", ts, 2))

	// Assert
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestSubscribe_FromInsideListenerAppliesToNextPublish(t *testing.T) {
	bus := events.NewBus()
	lateCalls := 0
	bus.Subscribe(func(events.GameEvent) {
		bus.Subscribe(func(events.GameEvent) { lateCalls++ })
	})

	bus.Publish(events.New(events.KindMajorOrder, "one", ts, 1))
	assert.Equal(t, 0, lateCalls)

	bus.Publish(events.New(events.KindMajorOrder, "two", ts, 2))
	assert.Equal(t, 1, lateCalls)
}

func TestUnsubscribe_UnknownReturnsFalse(t *testing.T) {
	bus := events.NewBus()
	assert.False(t, bus.Unsubscribe(42))
}

func TestSubscribeChannel_DropsWhenFull(t *testing.T) {
	// Arrange
	bus := events.NewBus()
	sub := bus.SubscribeChannel(2)
	defer sub.Close()

	// Act
	for i := 0; i < 5; i++ {
		bus.Publish(events.New(events.KindMarketChange, fmt.Sprintf("e%d", i), ts, i))
	}

	// Assert
	assert.Equal(t, uint64(3), sub.Dropped())
	first := <-sub.C()
	second := <-sub.C()
	assert.Equal(t, "e0", first.Message())
	assert.Equal(t, "e1", second.Message())
}

func TestSubscribeChannel_CloseIsIdempotent(t *testing.T) {
	bus := events.NewBus()
	sub := bus.SubscribeChannel(1)

	sub.Close()
	sub.Close()
	bus.Publish(events.New(events.KindMarketChange, "after close", ts, 1))

	_, open := <-sub.C()
	assert.False(t, open)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestTopic_GenericPayload(t *testing.T) {
	topic := events.NewTopic[int]()
	sum := 0
	topic.Subscribe(func(v int) { sum += v })

	topic.Publish(3)
	topic.Publish(4)

	assert.Equal(t, 7, sum)
}

func TestNew_ResolvesDescriptor(t *testing.T) {
	e := events.New(events.KindInsufficientFunds, "payroll", ts, 30)

	assert.Equal(t, "Insufficient Funds", e.Title())
	assert.Equal(t, events.SeverityHigh, e.Severity())
	assert.Equal(t, 30, e.Day())
	assert.Equal(t, ts, e.Timestamp())
}

func TestNewWithSeverity_Overrides(t *testing.T) {
	e := events.NewWithSeverity(events.KindLowCashFlow, events.SeverityHigh, "critical", ts, 3)
	assert.Equal(t, events.SeverityHigh, e.Severity())
	assert.Equal(t, "Low Cash Flow", e.Title())
}

func TestRecordRoundTrip(t *testing.T) {
	e := events.NewWithSeverity(events.KindLowCashFlow, events.SeverityHigh, "critical", ts, 3)

	back := events.FromRecord(e.Record())

	assert.Equal(t, e, back)
}

func TestAllKindsHaveDescriptors(t *testing.T) {
	for _, k := range events.AllKinds() {
		require.True(t, k.IsValid(), "kind %s", k)
		assert.NotEmpty(t, k.Descriptor().Title)
		assert.True(t, k.Descriptor().Severity.IsValid())
	}
}
