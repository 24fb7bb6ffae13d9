package service

import (
	"testing"
	"time"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

func snapshotEvent(n int) FeedEvent {
	return FeedEvent{Snapshot: &model.Snapshot{
		Features: make([]model.FeatureRequest, n),
	}}
}

func recv(t *testing.T, ch <-chan FeedEvent) FeedEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed event")
		return FeedEvent{}
	}
}

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Publish(snapshotEvent(2))

	for _, ch := range []<-chan FeedEvent{ch1, ch2} {
		ev := recv(t, ch)
		if ev.Snapshot == nil || len(ev.Snapshot.Features) != 2 {
			t.Error("subscriber did not receive the published snapshot")
		}
	}
}

func TestBroadcaster_LateSubscriberGetsLastEvent(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(snapshotEvent(3))

	_, ch := b.Subscribe()
	ev := recv(t, ch)
	if ev.Snapshot == nil || len(ev.Snapshot.Features) != 3 {
		t.Error("late subscriber should be primed with the last snapshot")
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()

	b.Unsubscribe(id)
	if _, open := <-ch; open {
		t.Error("channel should be closed after unsubscribe")
	}
	if b.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0", b.Subscribers())
	}

	// Second unsubscribe is a no-op.
	b.Unsubscribe(id)
}

func TestBroadcaster_SlowSubscriberSeesLatest(t *testing.T) {
	b := NewBroadcaster()
	_, ch := b.Subscribe()

	// Overflow the buffer; old snapshots may drop but the newest survives.
	for i := 1; i <= subscriberBuffer+3; i++ {
		b.Publish(snapshotEvent(i))
	}

	var last FeedEvent
	for {
		select {
		case ev := <-ch:
			last = ev
			continue
		default:
		}
		break
	}

	if last.Snapshot == nil || len(last.Snapshot.Features) != subscriberBuffer+3 {
		t.Errorf("slow subscriber's final event has %d features, want %d",
			len(last.Snapshot.Features), subscriberBuffer+3)
	}
}

func TestBroadcaster_ErrorEventThenSnapshotClears(t *testing.T) {
	b := NewBroadcaster()
	_, ch := b.Subscribe()

	b.Publish(FeedEvent{Err: &model.FeedError{Code: FeedErrConnectivity}})
	ev := recv(t, ch)
	if ev.Err == nil || ev.Err.Code != FeedErrConnectivity {
		t.Fatal("expected connectivity error event")
	}

	b.Publish(snapshotEvent(1))
	ev = recv(t, ch)
	if ev.Err != nil || ev.Snapshot == nil {
		t.Error("snapshot after error should carry no error")
	}
}
