package service

import (
	"sync"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

// FeedEvent is one delivery on the live feed: either a full snapshot or a
// classified error. A snapshot always clears a prior error.
type FeedEvent struct {
	Snapshot *model.Snapshot
	Err      *model.FeedError
}

// subscriber channel buffer. A subscriber that falls this far behind has
// its oldest events dropped; every snapshot is complete, so the latest
// one is all that matters.
const subscriberBuffer = 4

// Broadcaster fans feed events out to all registered subscribers.
// Exactly one subscription exists per feed connection; the handler
// releases it on disconnect.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan FeedEvent
	nextID int
	last   *FeedEvent // replayed to new subscribers so they start with data
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan FeedEvent)}
}

// Subscribe registers a new subscriber and returns its id and channel.
// The most recent event, if any, is delivered immediately.
func (b *Broadcaster) Subscribe() (int, <-chan FeedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan FeedEvent, subscriberBuffer)
	if b.last != nil {
		ch <- *b.last
	}
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe releases a subscriber. Safe to call twice.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers an event to every subscriber without blocking: if a
// subscriber's buffer is full its oldest event is evicted first.
func (b *Broadcaster) Publish(ev FeedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &ev
	for _, ch := range b.subs {
		for {
			select {
			case ch <- ev:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// Subscribers returns the current subscriber count (for metrics).
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
