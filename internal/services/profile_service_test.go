package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/pkg/apperrors"
)

func TestGetOwnProfile(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	profile, err := env.profiles.GetOwn(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.UserID)
	assert.Equal(t, alice.Profile.Username, profile.Username)
}

func TestPrivateProfileVisibleToFriendsOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")

	private := true
	_, err := env.profiles.Update(alice.ID, models.UpdateProfileRequest{IsPrivate: &private})
	require.NoError(t, err)

	// Strangers get not-found, not a permission error.
	_, err = env.profiles.GetVisible(alice.ID, eve.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	// The owner always sees it.
	profile, err := env.profiles.GetVisible(alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsPrivate)

	friendship, err := env.friendships.SendRequest(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.friendships.Respond(context.Background(), friendship.ID, alice.ID, FriendshipActionAccept)
	require.NoError(t, err)

	profile, err = env.profiles.GetVisible(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.UserID)
}

func TestGetByUsernameEnforcesPrivacy(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	eve := env.createUser(t, "eve")

	profile, err := env.profiles.GetByUsername(alice.Profile.Username, eve.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.UserID)

	private := true
	_, err = env.profiles.Update(alice.ID, models.UpdateProfileRequest{IsPrivate: &private})
	require.NoError(t, err)

	_, err = env.profiles.GetByUsername(alice.Profile.Username, eve.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = env.profiles.GetByUsername("nosuchname", eve.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateProfilePartialFields(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	updated, err := env.profiles.Update(alice.ID, models.UpdateProfileRequest{
		Bio:    "hello there",
		Avatar: "/uploads/avatar.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", updated.Bio)
	assert.Equal(t, "/uploads/avatar.png", updated.Avatar)
	// Untouched fields survive the partial update.
	assert.Equal(t, alice.Profile.Username, updated.Username)

	updated, err = env.profiles.Update(alice.ID, models.UpdateProfileRequest{Username: "freshname"})
	require.NoError(t, err)
	assert.Equal(t, "freshname", updated.Username)
	assert.Equal(t, "hello there", updated.Bio)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.profiles.Update(alice.ID, models.UpdateProfileRequest{Username: bob.Profile.Username})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyExists))

	// Re-submitting your own current username is a no-op, not a conflict.
	_, err = env.profiles.Update(alice.ID, models.UpdateProfileRequest{Username: alice.Profile.Username})
	require.NoError(t, err)
}

func TestSearchUsersMatchesNameAndUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice")
	env.createUser(t, "alicia")
	env.createUser(t, "bob")

	results, err := env.profiles.SearchUsers("alic", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = env.profiles.SearchUsers("bob", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bob", results[0].Name)
}
