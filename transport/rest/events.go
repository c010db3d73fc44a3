package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	events "github.com/rocketscienceinc/gomoku-backend/internal/transport/redis"
)

type placementSubscriber interface {
	Subscribe(ctx context.Context) (<-chan events.PlacementEvent, error)
}

// EventsHandler streams placement events to renderers as server-sent events.
type EventsHandler struct {
	logger     *slog.Logger
	subscriber placementSubscriber
}

func NewEventsHandler(logger *slog.Logger, subscriber placementSubscriber) *EventsHandler {
	return &EventsHandler{
		logger:     logger.With("component", "events-handler"),
		subscriber: subscriber,
	}
}

func (that *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Stream")

	boardID := r.URL.Query().Get("board")

	placements, err := that.subscriber.Subscribe(r.Context())
	if err != nil {
		log.Error("failed to subscribe", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "placement events unavailable"})
		return
	}

	controller := http.NewResponseController(w)

	// the stream outlives the server write timeout
	if err = controller.SetWriteDeadline(time.Time{}); err != nil {
		log.Warn("could not clear write deadline", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err = controller.Flush(); err != nil {
		log.Error("streaming unsupported", "error", err)
		return
	}

	for event := range placements {
		if boardID != "" && event.BoardID != boardID {
			continue
		}

		data, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal placement event", "error", err)
			continue
		}

		if _, err = fmt.Fprintf(w, "event: placement\ndata: %s\n\n", data); err != nil {
			log.Info("client went away", "error", err)
			return
		}

		if err = controller.Flush(); err != nil {
			return
		}
	}
}
