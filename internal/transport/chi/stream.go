package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server-sent event names.
const (
	eventInit   = "init"
	eventUpdate = "update"
)

// StreamStocks handles GET /api/v1/stocks/stream. The first event carries the
// full quote book, every later event one tick's updates.
func (s *Server) StreamStocks(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	sub, err := s.ticker.Subscribe(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	defer s.ticker.Unsubscribe(sub.ID)

	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, eventInit, sub.Initial); err != nil {
		s.logger.Debug("stream closed", zap.String("subscriber", sub.ID), zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case quotes, ok := <-sub.Updates:
			if !ok {
				return
			}
			if err := writeEvent(w, rc, eventUpdate, quotes); err != nil {
				s.logger.Debug("stream closed", zap.String("subscriber", sub.ID), zap.Error(err))
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("flush %s event: %w", event, err)
	}
	return nil
}
