package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/pkg/apperrors"
)

func TestSendMessageMemberOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.messages.Send(context.Background(), conversation.ID, eve.ID, "let me in", "", nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))

	message, err := env.messages.Send(context.Background(), conversation.ID, alice.ID, "hi bob", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, message.Type)

	assert.Contains(t, env.transport.channels(), broadcast.ConversationChannel(conversation.ID))
}

func TestSendMessageWithMedia(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	media := []string{"/uploads/one.png", "/uploads/two.png"}
	message, err := env.messages.Send(context.Background(), conversation.ID, alice.ID, "", models.MessageTypeImage, media)
	require.NoError(t, err)

	messages, _, err := env.messages.ListMessages(conversation.ID, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, message.ID, messages[0].ID)
	assert.Equal(t, media, messages[0].Media)
}

func TestListMessagesAdvancesWatermark(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.messages.Send(context.Background(), conversation.ID, alice.ID, "unread", "", nil)
	require.NoError(t, err)

	unread, err := env.convos.UnreadCount(conversation.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// Fetching the page marks the conversation read for the caller.
	messages, total, err := env.messages.ListMessages(conversation.ID, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, messages, 1)

	unread, err = env.convos.UnreadCount(conversation.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestListMessagesMemberOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	_, _, err = env.messages.ListMessages(conversation.ID, eve.ID, 1, 10)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))
}

func TestEditMessageOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	message, err := env.messages.Send(context.Background(), conversation.ID, alice.ID, "typo", "", nil)
	require.NoError(t, err)

	_, err = env.messages.Edit(context.Background(), message.ID, bob.ID, "hijacked")
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))

	edited, err := env.messages.Edit(context.Background(), message.ID, alice.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", edited.Content)
	assert.True(t, edited.IsEdited)
}

func TestDeleteMessageOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	message, err := env.messages.Send(context.Background(), conversation.ID, alice.ID, "regret", "", nil)
	require.NoError(t, err)

	err = env.messages.Delete(message.ID, bob.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))

	require.NoError(t, env.messages.Delete(message.ID, alice.ID))

	_, _, err = env.messages.ListMessages(conversation.ID, bob.ID, 1, 10)
	require.NoError(t, err)
	count, err := env.convos.UnreadCount(conversation.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMessagesReturnOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := env.messages.Send(context.Background(), conversation.ID, alice.ID, content, "", nil)
		require.NoError(t, err)
	}

	messages, total, err := env.messages.ListMessages(conversation.ID, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)
}
