package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/wavely-app/backend/internal/broadcast"
)

// Hub fans broadcast envelopes out to connected WebSocket clients by
// channel subscription. Clients register and unregister through channels so
// connection bookkeeping is serialized in Run; subscription lookups use a
// shared map guarded by a mutex because delivery happens on the subscriber
// goroutine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	// channel name -> subscribed clients
	subs map[string]map[*Client]bool
	// userID -> open connection count, for presence transitions
	userConns map[uint]int

	register   chan *Client
	unregister chan *Client
	// closed when Run returns, so handoffs to register/unregister never
	// block past shutdown
	stopped chan struct{}

	authorizer *Authorizer
	dispatcher *broadcast.Dispatcher
}

// NewHub creates a new Hub
func NewHub(authorizer *Authorizer, dispatcher *broadcast.Dispatcher) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		subs:       make(map[string]map[*Client]bool),
		userConns:  make(map[uint]int),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		authorizer: authorizer,
		dispatcher: dispatcher,
	}
}

// Run processes client registration until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Println("Realtime hub started")
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			log.Println("Realtime hub shutting down")
			return
		case client := <-h.register:
			h.registerClient(ctx, client)
		case client := <-h.unregister:
			h.unregisterClient(ctx, client)
		}
	}
}

// Deliver routes one published envelope to every client subscribed to the
// channel. Slow clients with a full send buffer are dropped rather than
// allowed to stall delivery.
func (h *Hub) Deliver(channel string, envelope []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subs[channel]))
	for client := range h.subs[channel] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	// send is never closed, so racing an unregister here is harmless: the
	// envelope lands in a buffer nobody drains and the client is gone.
	for _, client := range targets {
		select {
		case client.send <- envelope:
		default:
			log.Printf("realtime: dropping slow client for user %d", client.userID)
			go h.requestUnregister(client)
		}
	}
}

// requestUnregister hands a client to the Run loop without blocking past
// hub shutdown.
func (h *Hub) requestUnregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Subscribe adds the client to a channel after authorization.
func (h *Hub) Subscribe(client *Client, channel string) (bool, error) {
	ok, err := h.authorizer.CanSubscribe(client.userID, channel)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	h.mu.Lock()
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[*Client]bool)
	}
	h.subs[channel][client] = true
	client.channels[channel] = true
	h.mu.Unlock()
	return true, nil
}

// Unsubscribe removes the client from a channel
func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropSubscription(client, channel)
}

// ConnectionCount reports the number of open connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineUserCount reports the number of distinct connected users
func (h *Hub) OnlineUserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns)
}

// IsUserOnline reports whether a user has at least one open connection
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userConns[userID] > 0
}

func (h *Hub) registerClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.userConns[client.userID]++
	first := h.userConns[client.userID] == 1
	h.mu.Unlock()

	// The private channel is implicit; no subscribe frame needed for
	// notifications targeted at this user.
	if _, err := h.Subscribe(client, broadcast.UserChannel(client.userID)); err != nil {
		log.Printf("realtime: failed to subscribe user %d to own channel: %v", client.userID, err)
	}

	if first {
		h.publishStatus(ctx, client.userID, client.userName, true)
	}
}

func (h *Hub) unregisterClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	for channel := range client.channels {
		h.dropSubscription(client, channel)
	}
	h.userConns[client.userID]--
	last := h.userConns[client.userID] <= 0
	if last {
		delete(h.userConns, client.userID)
	}
	h.mu.Unlock()

	// Signal the write pump through done rather than closing send: other
	// goroutines (delivery, acks) may still hold the client and send on it.
	close(client.done)

	if last {
		h.publishStatus(ctx, client.userID, client.userName, false)
	}
}

// dropSubscription must be called with h.mu held.
func (h *Hub) dropSubscription(client *Client, channel string) {
	if set, ok := h.subs[channel]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.subs, channel)
		}
	}
	delete(client.channels, channel)
}

func (h *Hub) publishStatus(ctx context.Context, userID uint, userName string, online bool) {
	payload := broadcast.UserStatusPayload{
		UserID:   userID,
		UserName: userName,
		IsOnline: online,
	}
	if !online {
		now := time.Now()
		payload.LastSeen = &now
	}
	h.dispatcher.Dispatch(ctx, broadcast.EventUserStatus, payload, broadcast.UserStatusChannel)
}
