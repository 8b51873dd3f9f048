package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const channelPrefix = "notifications:"

// Event is the frame written to notification sockets.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Notifier publishes events on redis so every API instance can deliver them.
// Without redis it delivers straight to the local hub.
type Notifier struct {
	rdb *redis.Client
	hub *Hub
	log zerolog.Logger
}

func NewNotifier(rdb *redis.Client, hub *Hub, log zerolog.Logger) *Notifier {
	return &Notifier{rdb: rdb, hub: hub, log: log.With().Str("component", "notifier").Logger()}
}

func (n *Notifier) Notify(ctx context.Context, userIDs []uuid.UUID, event string, payload any) {
	b, err := json.Marshal(Event{Type: event, Data: payload, At: time.Now().UTC()})
	if err != nil {
		n.log.Error().Err(err).Str("event", event).Msg("marshal event")
		return
	}
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if n.rdb == nil {
			n.hub.SendBytes(id, b)
			continue
		}
		if err := n.rdb.Publish(ctx, channelPrefix+id.String(), b).Err(); err != nil {
			n.log.Warn().Err(err).Str("user_id", id.String()).Msg("publish failed, delivering locally")
			n.hub.SendBytes(id, b)
		}
	}
}

// Subscribe forwards published events to local sockets until ctx is done.
func (n *Notifier) Subscribe(ctx context.Context) {
	if n.rdb == nil {
		return
	}
	sub := n.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			n.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (n *Notifier) dispatch(channel string, payload []byte) {
	id, err := uuid.Parse(strings.TrimPrefix(channel, channelPrefix))
	if err != nil {
		n.log.Warn().Str("channel", channel).Msg("ignoring message on unknown channel")
		return
	}
	n.hub.SendBytes(id, payload)
}
