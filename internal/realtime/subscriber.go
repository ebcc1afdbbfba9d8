package realtime

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
)

// Subscriber bridges Redis pub/sub into the hub. It pattern-subscribes to
// every channel family the dispatcher publishes on, so a multi-instance
// deployment delivers events raised on any instance to clients connected
// anywhere.
type Subscriber struct {
	client *redis.Client
	hub    *Hub
}

// NewSubscriber creates a Subscriber
func NewSubscriber(client *redis.Client, hub *Hub) *Subscriber {
	return &Subscriber{client: client, hub: hub}
}

// Run consumes published envelopes until the context is cancelled.
func (s *Subscriber) Run(ctx context.Context) {
	pubsub := s.client.PSubscribe(ctx,
		"user.*",
		"posts",
		"post.*",
		"conversation.*",
	)
	defer pubsub.Close()

	log.Println("Realtime subscriber started")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Println("Realtime subscriber shutting down")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.hub.Deliver(msg.Channel, []byte(msg.Payload))
		}
	}
}
