// Package sessionevents implements the in-process session event broadcaster.
// It fans session state changes out to request-scoped subscribers, most
// notably the auth callback resolver waiting for a concurrently established
// session.
package sessionevents

import (
	"sync"

	"crm/internal/domain/service"
)

// Buffered so one pending event survives between Publish and the subscriber's
// receive without blocking the publisher.
const subscriptionBuffer = 4

// broadcaster implements service.SessionEvents with a plain mutex-guarded
// subscriber set. Subscriptions are short-lived (one HTTP request), so a
// simple map beats anything fancier.
type broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan service.SessionEvent
}

// New creates an empty broadcaster.
func New() service.SessionEvents {
	return &broadcaster{
		subs: make(map[int]chan service.SessionEvent),
	}
}

// Publish delivers the event to every current subscriber. A subscriber whose
// buffer is full misses the event rather than stalling the publisher; the
// callback resolver compensates with its polling retries.
func (b *broadcaster) Publish(event service.SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new listener.
func (b *broadcaster) Subscribe() service.SessionSubscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan service.SessionEvent, subscriptionBuffer)
	b.subs[id] = ch

	return &subscription{broadcaster: b, id: id, ch: ch}
}

type subscription struct {
	broadcaster *broadcaster
	id          int
	ch          chan service.SessionEvent
	closeOnce   sync.Once
}

// C returns the channel events arrive on.
func (s *subscription) C() <-chan service.SessionEvent {
	return s.ch
}

// Close detaches the subscription. Safe to call more than once.
func (s *subscription) Close() {
	s.closeOnce.Do(func() {
		b := s.broadcaster
		b.mu.Lock()
		delete(b.subs, s.id)
		b.mu.Unlock()

		// Closing under the lock above would race a concurrent Publish send;
		// deleting first guarantees no further sends reach this channel.
		close(s.ch)
	})
}
