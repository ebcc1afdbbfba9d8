package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/pkg/apperrors"
)

func TestStartPrivateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, created, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.ConversationPrivate, conversation.Type)

	// Either party starting again lands on the same conversation.
	again, created, err := env.convos.StartPrivate(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conversation.ID, again.ID)
}

func TestStartPrivateWithSelfFails(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, _, err := env.convos.StartPrivate(alice.ID, alice.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeFailedPrecondition))
}

func TestCreateGroupNeedsThreeMembers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	// Creator plus one is too small. Duplicate IDs do not count twice.
	_, err := env.convos.CreateGroup(alice.ID, "tiny", "", []uint{bob.ID, bob.ID, alice.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArgument))

	group, err := env.convos.CreateGroup(alice.ID, "trio", "", []uint{bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ConversationGroup, group.Type)
	assert.Equal(t, "trio", group.Name)

	for _, id := range []uint{alice.ID, bob.ID, carol.ID} {
		member, err := env.convos.IsMember(group.ID, id)
		require.NoError(t, err)
		assert.True(t, member)
	}
}

func TestNonMemberCannotAccessConversation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.convos.Get(conversation.ID, eve.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))

	err = env.convos.MarkAsRead(conversation.ID, eve.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))
}

func TestUnreadCountFollowsWatermark(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	for _, content := range []string{"one", "two", "three"} {
		_, err := env.messages.Send(context.Background(), conversation.ID, alice.ID, content, "", nil)
		require.NoError(t, err)
	}

	// Sending advances the sender's own watermark.
	unread, err := env.convos.UnreadCount(conversation.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	unread, err = env.convos.UnreadCount(conversation.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, env.convos.MarkAsRead(conversation.ID, bob.ID))

	unread, err = env.convos.UnreadCount(conversation.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestListForUserSummaries(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.messages.Send(context.Background(), conversation.ID, alice.ID, "latest", "", nil)
	require.NoError(t, err)

	summaries, err := env.convos.ListForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, conversation.ID, summaries[0].Conversation.ID)
	assert.Equal(t, int64(1), summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "latest", summaries[0].LastMessage.Content)
}

func TestMuteIsPerMember(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, env.convos.Mute(conversation.ID, bob.ID))

	summaries, err := env.convos.ListForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].IsMuted)

	summaries, err = env.convos.ListForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].IsMuted)

	require.NoError(t, env.convos.Unmute(conversation.ID, bob.ID))
	summaries, err = env.convos.ListForUser(bob.ID)
	require.NoError(t, err)
	assert.False(t, summaries[0].IsMuted)
}

func TestGroupMembershipManagement(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	dave := env.createUser(t, "dave")

	group, err := env.convos.CreateGroup(alice.ID, "crew", "", []uint{bob.ID, carol.ID})
	require.NoError(t, err)

	// Outsiders cannot add members.
	err = env.convos.AddMembers(group.ID, dave.ID, []uint{dave.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermissionDenied))

	require.NoError(t, env.convos.AddMembers(group.ID, alice.ID, []uint{dave.ID}))
	isMember, err := env.convos.IsMember(group.ID, dave.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	// Re-adding an existing member is a no-op.
	require.NoError(t, env.convos.AddMembers(group.ID, alice.ID, []uint{dave.ID}))

	require.NoError(t, env.convos.RemoveMember(group.ID, alice.ID, dave.ID))
	isMember, err = env.convos.IsMember(group.ID, dave.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	require.NoError(t, env.convos.Leave(group.ID, carol.ID))
	isMember, err = env.convos.IsMember(group.ID, carol.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestPrivateConversationRejectsGroupOperations(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	conversation, _, err := env.convos.StartPrivate(alice.ID, bob.ID)
	require.NoError(t, err)

	err = env.convos.AddMembers(conversation.ID, alice.ID, []uint{carol.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeFailedPrecondition))

	err = env.convos.Leave(conversation.ID, alice.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeFailedPrecondition))
}
