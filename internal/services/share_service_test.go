package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/pkg/apperrors"
)

func TestTimelineShareRepeatsFreely(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	sharer := env.createUser(t, "sharer")
	post := env.createPost(t, author.ID, "share me")

	for i := 0; i < 3; i++ {
		_, err := env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
			ShareType: models.ShareTypeTimeline,
		})
		require.NoError(t, err)
	}

	stats, err := env.shares.Stats(post.ID, sharer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalShares)
	assert.Equal(t, int64(3), stats.TimelineShares)
	assert.True(t, stats.UserHasShared)
}

func TestNonTimelineShareRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	sharer := env.createUser(t, "sharer")
	post := env.createPost(t, author.ID, "story material")

	_, err := env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeStory,
	})
	require.NoError(t, err)

	_, err = env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeStory,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyExists))

	// A different channel for the same post is still fine.
	_, err = env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeCopyLink,
	})
	require.NoError(t, err)
}

func TestTimelineShareCreatesDerivedPost(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	sharer := env.createUser(t, "sharer")
	post := env.createPost(t, author.ID, "origin")

	_, err := env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeTimeline,
		Content:   "check this out",
	})
	require.NoError(t, err)

	feed, total, err := env.posts.FeedForUser(sharer.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].IsShared)
	assert.Equal(t, models.PostTypeShared, feed[0].Type)
	assert.Equal(t, "check this out", feed[0].Content)
	require.NotNil(t, feed[0].SharedPostID)
	assert.Equal(t, post.ID, *feed[0].SharedPostID)
}

func TestStoryShareLeavesFeedAlone(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	sharer := env.createUser(t, "sharer")
	post := env.createPost(t, author.ID, "story only")

	_, err := env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeStory,
	})
	require.NoError(t, err)

	_, total, err := env.posts.FeedForUser(sharer.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSharePrivatePostDenied(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	sharer := env.createUser(t, "sharer")

	private := false
	post, err := env.posts.Create(context.Background(), author.ID, models.CreatePostRequest{
		Content:  "not yours to share",
		IsPublic: &private,
	})
	require.NoError(t, err)

	_, err = env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeTimeline,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUnshareRemovesShare(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	sharer := env.createUser(t, "sharer")
	post := env.createPost(t, author.ID, "temporary")

	_, err := env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeStory,
	})
	require.NoError(t, err)

	require.NoError(t, env.shares.Unshare(post.ID, sharer.ID, models.ShareTypeStory))

	err = env.shares.Unshare(post.ID, sharer.ID, models.ShareTypeStory)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	// Dropping the unique row allows sharing through that channel again.
	_, err = env.shares.SharePost(context.Background(), post.ID, sharer.ID, models.SharePostRequest{
		ShareType: models.ShareTypeStory,
	})
	require.NoError(t, err)
}

func TestShareStatsBreakdown(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "author")
	u1 := env.createUser(t, "u1")
	u2 := env.createUser(t, "u2")
	post := env.createPost(t, author.ID, "counted")

	_, err := env.shares.SharePost(context.Background(), post.ID, u1.ID, models.SharePostRequest{ShareType: models.ShareTypeTimeline})
	require.NoError(t, err)
	_, err = env.shares.SharePost(context.Background(), post.ID, u1.ID, models.SharePostRequest{ShareType: models.ShareTypeStory})
	require.NoError(t, err)
	_, err = env.shares.SharePost(context.Background(), post.ID, u2.ID, models.SharePostRequest{ShareType: models.ShareTypeMessage})
	require.NoError(t, err)

	stats, err := env.shares.Stats(post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalShares)
	assert.Equal(t, int64(1), stats.TimelineShares)
	assert.Equal(t, int64(1), stats.StoryShares)
	assert.Equal(t, int64(1), stats.MessageShares)
	assert.Equal(t, int64(0), stats.CopyLinkShares)
	assert.False(t, stats.UserHasShared)

	shares, total, err := env.shares.SharesForUser(u1.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, shares, 2)
}
