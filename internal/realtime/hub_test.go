package realtime

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nopTransport struct{}

func (nopTransport) Publish(context.Context, string, string, []byte) error { return nil }

func newHubTest(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OutboxEvent{}))

	dispatcher := broadcast.NewDispatcher(repositories.NewPostgresOutboxRepository(db), nopTransport{})
	hub := NewHub(NewAuthorizer(&stubMembership{}), dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func waitForConnections(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ConnectionCount() == want
	}, time.Second, time.Millisecond)
}

func TestDroppedClientSendChannelStaysOpen(t *testing.T) {
	hub, _ := newHubTest(t)

	client := NewClient(hub, nil, 7, "alice")
	hub.register <- client
	waitForConnections(t, hub, 1)

	hub.unregister <- client
	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("client was not released")
	}

	// A deliverer that snapshotted this client before it was dropped may
	// still send; that must land in the dead buffer, not panic.
	assert.NotPanics(t, func() { client.send <- []byte(`{}`) })
	assert.False(t, hub.IsUserOnline(7))
}

func TestDeliverDuringConnectionChurn(t *testing.T) {
	hub, _ := newHubTest(t)

	stop := make(chan struct{})
	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		for {
			select {
			case <-stop:
				return
			default:
				hub.Deliver(broadcast.PostsChannel, []byte(`{}`))
			}
		}
	}()

	for i := 0; i < 200; i++ {
		client := NewClient(hub, nil, uint(i+1), "user")
		hub.register <- client
		_, err := hub.Subscribe(client, broadcast.PostsChannel)
		require.NoError(t, err)
		hub.unregister <- client
	}
	close(stop)
	<-delivered

	waitForConnections(t, hub, 0)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, _ := newHubTest(t)

	client := NewClient(hub, nil, 9, "bob")
	hub.register <- client
	waitForConnections(t, hub, 1)

	for i := 0; i < sendBufferSize; i++ {
		client.send <- []byte(`{}`)
	}
	hub.Deliver(broadcast.UserChannel(9), []byte(`{}`))

	waitForConnections(t, hub, 0)
	assert.False(t, hub.IsUserOnline(9))
}

func TestUnregisterHandoffReturnsAfterShutdown(t *testing.T) {
	hub, cancel := newHubTest(t)

	client := NewClient(hub, nil, 3, "carol")
	hub.register <- client
	waitForConnections(t, hub, 1)

	cancel()
	<-hub.stopped

	returned := make(chan struct{})
	go func() {
		hub.requestUnregister(client)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("unregister handoff blocked after hub shutdown")
	}
}
