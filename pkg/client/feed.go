package client

import (
	"context"
	"sync"
	"time"
)

const defaultFeedBuffer = 100

// Feed fans client events out to UI subscribers. Slow subscribers drop
// events rather than blocking the publisher.
type Feed struct {
	mu               sync.RWMutex
	subscribers      map[uint64]chan Event
	nextSubscriberID uint64

	done      chan struct{}
	closeOnce sync.Once
}

func NewFeed() *Feed {
	return &Feed{
		subscribers: make(map[uint64]chan Event),
		done:        make(chan struct{}),
	}
}

// Publish delivers one event to every subscriber. It reports false once the
// feed or context is done.
func (f *Feed) Publish(ctx context.Context, event Event) bool {
	if ctx == nil {
		ctx = context.Background()
	}

	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return false
	case <-f.done:
		return false
	default:
	}

	f.mu.RLock()
	subs := make([]chan Event, 0, len(f.subscribers))
	for _, ch := range f.subscribers {
		subs = append(subs, ch)
	}
	f.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Drop instead of blocking the publisher on slow subscribers.
		}
	}

	return true
}

// Subscribe registers a new subscriber channel. The returned function
// unsubscribes; it is safe to call more than once.
func (f *Feed) Subscribe(ctx context.Context, buffer int) (<-chan Event, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	if buffer <= 0 {
		buffer = defaultFeedBuffer
	}

	ch := make(chan Event, buffer)

	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}

	id := f.nextSubscriberID
	f.nextSubscriberID++
	f.subscribers[id] = ch
	f.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			if eventCh, ok := f.subscribers[id]; ok {
				delete(f.subscribers, id)
				close(eventCh)
			}
			f.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-f.done:
			unsubscribe()
		}
	}()

	return ch, unsubscribe
}

// Close tears the feed down and closes every subscriber channel.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		close(f.done)

		f.mu.Lock()
		for id, ch := range f.subscribers {
			close(ch)
			delete(f.subscribers, id)
		}
		f.mu.Unlock()
	})
}
