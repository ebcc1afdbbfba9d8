package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
)

// Dispatcher maps domain events onto channels through the outbox: the event
// row is recorded durably first, then pushed to the transport. Transport
// failures are logged and the row stays pending for a later flush; they
// never fail the triggering mutation.
type Dispatcher struct {
	outbox    repositories.OutboxRepository
	transport Transport
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(outbox repositories.OutboxRepository, transport Transport) *Dispatcher {
	return &Dispatcher{outbox: outbox, transport: transport}
}

// Dispatch records the event and attempts immediate delivery on each channel.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, payload any, channels ...string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("broadcast: failed to marshal %s payload: %v", event, err)
		return
	}

	for _, channel := range channels {
		envelope := Envelope{ID: uuid.New().String(), Event: event, Data: data}
		raw, err := json.Marshal(envelope)
		if err != nil {
			log.Printf("broadcast: failed to marshal %s envelope: %v", event, err)
			continue
		}

		row := &models.OutboxEvent{
			ID:        envelope.ID,
			Channel:   channel,
			Event:     event,
			Payload:   raw,
			CreatedAt: time.Now(),
		}
		if err := d.outbox.CreateEvent(row); err != nil {
			log.Printf("broadcast: failed to record %s on %s: %v", event, channel, err)
			continue
		}

		d.publish(ctx, row)
	}
}

// FlushPending retries delivery of events that failed to publish earlier.
func (d *Dispatcher) FlushPending(ctx context.Context, limit int) {
	events, err := d.outbox.GetUnpublished(limit)
	if err != nil {
		log.Printf("broadcast: failed to load pending events: %v", err)
		return
	}
	for i := range events {
		d.publish(ctx, &events[i])
	}
}

func (d *Dispatcher) publish(ctx context.Context, event *models.OutboxEvent) {
	if err := d.transport.Publish(ctx, event.Channel, event.Event, event.Payload); err != nil {
		log.Printf("broadcast: publish %s on %s failed: %v", event.Event, event.Channel, err)
		return
	}
	if err := d.outbox.MarkPublished(event.ID, time.Now()); err != nil {
		log.Printf("broadcast: failed to mark %s published: %v", event.ID, err)
	}
}
