package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

// heartbeat keeps idle SSE connections from being reaped by proxies.
const feedHeartbeat = 25 * time.Second

type FeedHandler struct {
	bus *service.Broadcaster
}

func NewFeedHandler(bus *service.Broadcaster) *FeedHandler {
	return &FeedHandler{bus: bus}
}

// Stream handles GET /api/features/feed, a server-sent-events stream of
// full snapshots. Each connection holds exactly one subscription, released
// when the client disconnects. Every "snapshot" event carries the complete
// current record set; "error" events carry the classified feed error and
// are cleared by the next snapshot.
func (h *FeedHandler) Stream(c fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	id, events := h.bus.Subscribe()

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer h.bus.Unsubscribe(id)

		heartbeat := time.NewTicker(feedHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeFeedEvent(w, ev); err != nil {
					return // client gone
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

func writeFeedEvent(w *bufio.Writer, ev service.FeedEvent) error {
	var name string
	var payload any
	switch {
	case ev.Snapshot != nil:
		name = "snapshot"
		payload = ev.Snapshot
		Metrics.SnapshotsTotal.Inc()
	case ev.Err != nil:
		name = "error"
		payload = ev.Err
	default:
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
