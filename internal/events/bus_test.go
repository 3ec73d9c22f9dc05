package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestBus(t *testing.T, opts ...Option) *Bus {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	bus := NewBus(opts...)
	t.Cleanup(bus.Stop)

	return bus
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := newTestBus(t)

	var wg sync.WaitGroup
	wg.Add(2)

	var lock sync.Mutex
	received := map[string]any{}

	for _, name := range []string{"first", "second"} {
		subscriberName := name
		bus.Subscribe("topic", subscriberName, func(_ context.Context, msg any) {
			lock.Lock()
			received[subscriberName] = msg
			lock.Unlock()
			wg.Done()
		})
	}

	bus.Publish("topic", "hello")
	wg.Wait()

	assert.Equal(t, map[string]any{"first": "hello", "second": "hello"}, received)
}

func TestSubscribersOnlyReceiveTheirTopic(t *testing.T) {
	bus := newTestBus(t)

	delivered := make(chan any, 1)
	bus.Subscribe("wanted", "subscriber", func(_ context.Context, msg any) {
		delivered <- msg
	})

	bus.Publish("other", "ignored")
	bus.Publish("wanted", "hello")

	select {
	case msg := <-delivered:
		assert.Equal(t, "hello", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not receive the message")
	}

	select {
	case msg := <-delivered:
		t.Fatalf("subscriber received message of unsubscribed topic: %v", msg)
	default:
	}
}

func TestPanickingSubscriberDoesNotAffectOthers(t *testing.T) {
	bus := newTestBus(t)

	delivered := make(chan any, 2)

	bus.Subscribe("topic", "panicking", func(context.Context, any) {
		panic("forced test panic")
	})
	bus.Subscribe("topic", "healthy", func(_ context.Context, msg any) {
		delivered <- msg
	})

	bus.Publish("topic", 1)
	bus.Publish("topic", 2)

	for _, expected := range []any{1, 2} {
		select {
		case msg := <-delivered:
			assert.Equal(t, expected, msg)
		case <-time.After(5 * time.Second):
			t.Fatal("healthy subscriber did not receive the message")
		}
	}
}

type testObserver struct {
	lock   sync.Mutex
	topics []string
}

func (o *testObserver) Published(topic string, _ any) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.topics = append(o.topics, topic)
}

func TestObserverSeesEveryPublish(t *testing.T) {
	observer := &testObserver{}
	bus := newTestBus(t, WithObserver(observer))

	// observers are notified also for topics without subscribers
	bus.Publish("a", nil)
	bus.Publish("b", nil)
	bus.Publish("a", nil)

	observer.lock.Lock()
	defer observer.lock.Unlock()
	assert.Equal(t, []string{"a", "b", "a"}, observer.topics)
}

func TestPublishConcurrentWithStop(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	for i := 0; i < 100; i++ {
		bus := NewBus()
		bus.Subscribe("topic", "subscriber", func(_ context.Context, _ any) {})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish("topic", j)
			}
		}()

		bus.Stop()
		wg.Wait()
	}
}

func TestPublishAfterStopIsDiscarded(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	observer := &testObserver{}
	bus := NewBus(WithObserver(observer))

	bus.Stop()
	bus.Publish("topic", nil)

	observer.lock.Lock()
	defer observer.lock.Unlock()
	require.Empty(t, observer.topics)
}
