package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// PlacementEvent is broadcast after every successful placement so renderers can draw the piece.
type PlacementEvent struct {
	BoardID string `json:"board_id"`
	entity.Placement
}

type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
	}
}

func (that *Publisher) PublishPlacement(ctx context.Context, boardID string, placement entity.Placement) error {
	eventJSON, err := json.Marshal(PlacementEvent{BoardID: boardID, Placement: placement})
	if err != nil {
		return fmt.Errorf("could not marshal placement event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish placement event: %w", err)
	}

	return nil
}

// NopPublisher drops events; used when redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishPlacement(context.Context, string, entity.Placement) error {
	return nil
}

type Subscriber struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
}

func NewSubscriber(logger *slog.Logger, client *redis.Client, channel string) *Subscriber {
	return &Subscriber{
		logger:  logger.With("component", "placement-subscriber"),
		client:  client,
		channel: channel,
	}
}

// Subscribe delivers decoded events until ctx is done, then closes the returned channel.
func (that *Subscriber) Subscribe(ctx context.Context) (<-chan PlacementEvent, error) {
	pubsub := that.client.Subscribe(ctx, that.channel)

	// wait for the subscription to be confirmed so no event published afterwards is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", that.channel, err)
	}

	events := make(chan PlacementEvent)

	go func() {
		defer close(events)
		defer pubsub.Close()

		messages := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event PlacementEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					that.logger.Warn("skipping malformed placement event", "error", err)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
