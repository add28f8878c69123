package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/notifications"
)

const heartbeatInterval = 30 * time.Second

// handleEvents handles GET /api/events. It streams notifications to the
// client as server-sent events and sends a comment heartbeat every 30
// seconds so proxies keep the connection open.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeErrorResponse(w, http.StatusInternalServerError, "streaming not supported", nil)
		return
	}

	ctx := r.Context()
	log := logger.G(ctx)

	events, unsubscribe := s.service.Hub().Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	log.WithField("clients", s.service.Hub().ClientCount()).Debug("event stream client connected")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("event stream client disconnected")
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case notification, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, notification); err != nil {
				log.WithError(err).Debug("failed to write event, closing stream")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, n *notifications.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
	return err
}
