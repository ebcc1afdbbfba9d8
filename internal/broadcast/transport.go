package broadcast

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

// Transport is the external pub/sub collaborator: fire-and-forget,
// best-effort delivery, no acknowledgment or retry modeled here.
type Transport interface {
	Publish(ctx context.Context, channel, event string, payload []byte) error
}

// Envelope is the wire shape published on a channel.
type Envelope struct {
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// RedisTransport publishes envelopes with Redis PUBLISH.
type RedisTransport struct {
	client *redis.Client
}

// NewRedisTransport creates a transport over an existing Redis client
func NewRedisTransport(client *redis.Client) *RedisTransport {
	return &RedisTransport{client: client}
}

// Publish sends one envelope to a channel. The payload is the already
// marshaled envelope produced by the dispatcher.
func (t *RedisTransport) Publish(ctx context.Context, channel, _ string, payload []byte) error {
	return t.client.Publish(ctx, channel, payload).Err()
}
