package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/pkg/apperrors"
)

func TestNotificationSkipsSelfAction(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "solo")

	notification, err := env.notifications.FriendAccepted(context.Background(), user.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, notification)

	count, err := env.notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLikeNotificationDedupedWhileUnread(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, author.ID, "popular")

	first, err := env.notifications.PostLike(context.Background(), post, fan.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// An unread twin suppresses the repeat.
	second, err := env.notifications.PostLike(context.Background(), post, fan.ID)
	require.NoError(t, err)
	assert.Nil(t, second)

	// Once read, a fresh like notifies again.
	require.NoError(t, env.notifications.MarkAsRead(first.ID, author.ID))
	third, err := env.notifications.PostLike(context.Background(), post, fan.ID)
	require.NoError(t, err)
	assert.NotNil(t, third)
}

func TestLikeDedupExpiresAfterWindow(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, author.ID, "popular")

	first, err := env.notifications.PostLike(context.Background(), post, fan.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// An unread twin older than 24h no longer suppresses the repeat.
	aged := time.Now().Add(-25 * time.Hour)
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("id = ?", first.ID).
		Update("created_at", aged).Error)

	second, err := env.notifications.PostLike(context.Background(), post, fan.ID)
	require.NoError(t, err)
	assert.NotNil(t, second)

	count, err := env.notifications.UnreadCount(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLikeDedupIsPerTarget(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	postA := env.createPost(t, author.ID, "a")
	postB := env.createPost(t, author.ID, "b")

	first, err := env.notifications.PostLike(context.Background(), postA, fan.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// A like on a different post is not a repeat.
	second, err := env.notifications.PostLike(context.Background(), postB, fan.ID)
	require.NoError(t, err)
	assert.NotNil(t, second)
}

func TestFriendRequestNotificationDeduped(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "recipient")
	sender := env.createUser(t, "sender")
	other := env.createUser(t, "other")

	first, err := env.notifications.FriendRequest(context.Background(), recipient.ID, sender.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := env.notifications.FriendRequest(context.Background(), recipient.ID, sender.ID)
	require.NoError(t, err)
	assert.Nil(t, second)

	// A different sender is never suppressed.
	fromOther, err := env.notifications.FriendRequest(context.Background(), recipient.ID, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, fromOther)
}

func TestNotificationPresentation(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	fan := env.createUser(t, "fan")
	post := env.createPost(t, author.ID, "styled")

	_, err := env.notifications.PostLike(context.Background(), post, fan.ID)
	require.NoError(t, err)

	views, total, err := env.notifications.List(author.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, fmt.Sprintf("%s liked your post", fan.Name), view.Message)
	assert.Equal(t, "heart", view.Icon)
	assert.Equal(t, "red", view.Color)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), view.URL)
}

func TestCommentNotificationCarriesPreview(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	reader := env.createUser(t, "reader")
	post := env.createPost(t, author.ID, "discuss")

	comment, err := env.comments.Add(context.Background(), post.ID, reader.ID, "well said", nil)
	require.NoError(t, err)

	views, _, err := env.notifications.List(author.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.NotificationPostComment, views[0].Type)
	assert.EqualValues(t, comment.ID, views[0].Data["comment_id"])
	assert.Equal(t, "well said", views[0].Data["comment_content"])
}

func TestCommentPreviewTruncatesOnRuneBoundary(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	reader := env.createUser(t, "reader")
	post := env.createPost(t, author.ID, "discuss")

	long := strings.Repeat("é", 150)
	_, err := env.comments.Add(context.Background(), post.ID, reader.ID, long, nil)
	require.NoError(t, err)

	views, _, err := env.notifications.List(author.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)

	preview, ok := views[0].Data["comment_content"].(string)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("é", 100), preview)
	assert.True(t, utf8.ValidString(preview))
}

func TestMarkReadCycleIsOwnerChecked(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "recipient")
	sender := env.createUser(t, "sender")

	notification, err := env.notifications.FriendRequest(context.Background(), recipient.ID, sender.ID)
	require.NoError(t, err)
	require.NotNil(t, notification)

	err = env.notifications.MarkAsRead(notification.ID, sender.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))

	require.NoError(t, env.notifications.MarkAsRead(notification.ID, recipient.ID))
	// Idempotent.
	require.NoError(t, env.notifications.MarkAsRead(notification.ID, recipient.ID))

	count, err := env.notifications.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, env.notifications.MarkAsUnread(notification.ID, recipient.ID))
	count, err = env.notifications.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkAllAsRead(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "recipient")
	s1 := env.createUser(t, "s1")
	s2 := env.createUser(t, "s2")

	for _, sender := range []uint{s1.ID, s2.ID} {
		_, err := env.notifications.FriendRequest(context.Background(), recipient.ID, sender)
		require.NoError(t, err)
	}

	count, err := env.notifications.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, env.notifications.MarkAllAsRead(recipient.ID))
	count, err = env.notifications.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteAllReadLeavesUnread(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "recipient")
	s1 := env.createUser(t, "s1")
	s2 := env.createUser(t, "s2")

	read, err := env.notifications.FriendRequest(context.Background(), recipient.ID, s1.ID)
	require.NoError(t, err)
	_, err = env.notifications.FriendRequest(context.Background(), recipient.ID, s2.ID)
	require.NoError(t, err)
	require.NoError(t, env.notifications.MarkAsRead(read.ID, recipient.ID))

	deleted, err := env.notifications.DeleteAllRead(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := env.notifications.List(recipient.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCleanupOldPurgesStaleRead(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "recipient")
	sender := env.createUser(t, "sender")

	notification, err := env.notifications.FriendRequest(context.Background(), recipient.ID, sender.ID)
	require.NoError(t, err)

	stale := time.Now().AddDate(0, 0, -60)
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("id = ?", notification.ID).
		Updates(map[string]any{"read": true, "read_at": stale}).Error)

	purged, err := env.notifications.CleanupOld(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestNotificationBroadcastHitsRecipientChannel(t *testing.T) {
	env := newTestEnv(t)
	recipient := env.createUser(t, "recipient")
	sender := env.createUser(t, "sender")

	_, err := env.notifications.FriendRequest(context.Background(), recipient.ID, sender.ID)
	require.NoError(t, err)

	assert.Contains(t, env.transport.channels(), broadcast.UserChannel(recipient.ID))
}
