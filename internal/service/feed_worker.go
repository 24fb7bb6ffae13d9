package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/repository"
)

// FeedWorker listens for Postgres NOTIFY on the feature_changes channel
// and pushes full snapshots to the broadcaster. Bursts of mutations
// within the coalescing window produce a single snapshot reload.
type FeedWorker struct {
	pool     *pgxpool.Pool
	store    FeatureStore
	cache    *CacheService
	bus      *Broadcaster
	coalesce time.Duration

	mu    sync.Mutex
	dirty bool
}

// NewFeedWorker creates a snapshot push worker.
func NewFeedWorker(pool *pgxpool.Pool, store FeatureStore, cache *CacheService, bus *Broadcaster) *FeedWorker {
	return &FeedWorker{
		pool:     pool,
		store:    store,
		cache:    cache,
		bus:      bus,
		coalesce: 500 * time.Millisecond,
	}
}

// Start pushes an initial snapshot, then listens for change notifications
// until ctx is cancelled, reconnecting on listen failures.
func (w *FeedWorker) Start(ctx context.Context) {
	log.Printf("feed-worker: starting (coalesce window=%s)", w.coalesce)

	w.publish(ctx)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("feed-worker: stopping (context cancelled)")
				return
			}
			w.bus.Publish(feedErrorEvent(err))
			log.Printf("feed-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("feed-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on feature_changes,
// and marks the snapshot dirty on every notification.
func (w *FeedWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN "+repository.NotifyChannel)
	if err != nil {
		return err
	}
	log.Printf("feed-worker: listening on %s", repository.NotifyChannel)

	// A reconnect may have missed notifications; refresh once.
	w.markDirty()

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		w.markDirty()
	}
}

// flushLoop periodically checks the dirty flag and publishes a snapshot.
func (w *FeedWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.coalesce)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if w.takeDirty() {
				w.publish(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

// publish loads the full record set and broadcasts it, or broadcasts a
// classified error event. A successful snapshot clears any prior error
// state on the subscribers' side.
func (w *FeedWorker) publish(ctx context.Context) {
	features, err := w.store.List(ctx)
	if err != nil {
		log.Printf("feed-worker: snapshot load error: %v", err)
		w.bus.Publish(feedErrorEvent(err))
		return
	}

	if w.cache != nil {
		if err := w.cache.SetSnapshot(ctx, features); err != nil {
			log.Printf("feed-worker: cache write error: %v", err)
		}
	}

	w.bus.Publish(FeedEvent{Snapshot: &model.Snapshot{
		Features:    features,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}})
}

func (w *FeedWorker) markDirty() {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
}

func (w *FeedWorker) takeDirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.dirty
	w.dirty = false
	return d
}

func feedErrorEvent(err error) FeedEvent {
	fe := ClassifyFeedError(err)
	return FeedEvent{Err: &fe}
}
