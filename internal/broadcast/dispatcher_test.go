package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingTransport struct {
	mu        sync.Mutex
	fail      bool
	published []string // channels in publish order
}

func (t *recordingTransport) Publish(_ context.Context, channel, _ string, _ []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return errors.New("transport down")
	}
	t.published = append(t.published, channel)
	return nil
}

func (t *recordingTransport) setFail(fail bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail = fail
}

func (t *recordingTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.published)
}

func newDispatcherTest(t *testing.T) (*Dispatcher, repositories.OutboxRepository, *recordingTransport, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OutboxEvent{}))

	transport := &recordingTransport{}
	outbox := repositories.NewPostgresOutboxRepository(db)
	return NewDispatcher(outbox, transport), outbox, transport, db
}

func TestDispatchPublishesAndMarksRow(t *testing.T) {
	dispatcher, outbox, transport, db := newDispatcherTest(t)

	dispatcher.Dispatch(context.Background(), EventPostCreated,
		map[string]any{"id": 1}, PostsChannel, UserChannel(7))

	assert.Equal(t, []string{PostsChannel, UserChannel(7)}, transport.published)

	pending, err := outbox.GetUnpublished(10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var total int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestDispatchEnvelopeShape(t *testing.T) {
	dispatcher, _, _, db := newDispatcherTest(t)

	dispatcher.Dispatch(context.Background(), EventPostLiked,
		map[string]any{"post_id": 42}, PostChannel(42))

	var row models.OutboxEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, PostChannel(42), row.Channel)
	assert.Equal(t, EventPostLiked, row.Event)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, row.ID, envelope.ID)
	assert.Equal(t, EventPostLiked, envelope.Event)

	var data map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.EqualValues(t, 42, data["post_id"])
}

func TestFailedPublishStaysPending(t *testing.T) {
	dispatcher, outbox, transport, _ := newDispatcherTest(t)
	transport.setFail(true)

	// The mutation path never sees the transport failure.
	dispatcher.Dispatch(context.Background(), EventMessageNew,
		map[string]any{"message_id": 1}, ConversationChannel(3))

	assert.Zero(t, transport.count())
	pending, err := outbox.GetUnpublished(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ConversationChannel(3), pending[0].Channel)
}

func TestFlushPendingRetriesFailedRows(t *testing.T) {
	dispatcher, outbox, transport, _ := newDispatcherTest(t)
	transport.setFail(true)

	dispatcher.Dispatch(context.Background(), EventNotificationSent,
		map[string]any{"id": 1}, UserChannel(5))
	dispatcher.Dispatch(context.Background(), EventNotificationSent,
		map[string]any{"id": 2}, UserChannel(6))

	transport.setFail(false)
	dispatcher.FlushPending(context.Background(), 100)

	assert.Equal(t, 2, transport.count())
	pending, err := outbox.GetUnpublished(10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Nothing left to redeliver; a second flush is a no-op.
	dispatcher.FlushPending(context.Background(), 100)
	assert.Equal(t, 2, transport.count())
}

func TestFlushPendingHonorsLimit(t *testing.T) {
	dispatcher, outbox, transport, _ := newDispatcherTest(t)
	transport.setFail(true)

	for i := 0; i < 5; i++ {
		dispatcher.Dispatch(context.Background(), EventPostCreated,
			map[string]any{"id": i}, PostsChannel)
	}

	transport.setFail(false)
	dispatcher.FlushPending(context.Background(), 2)

	assert.Equal(t, 2, transport.count())
	pending, err := outbox.GetUnpublished(10)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
