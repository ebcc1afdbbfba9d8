package services

import (
	"context"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// PostService creates and reads posts. Media order is preserved exactly as
// submitted; shared posts always point at the original, never at another
// share, so display nesting stays one level deep.
type PostService struct {
	posts      repositories.PostRepository
	dispatcher *broadcast.Dispatcher
	users      repositories.UserRepository
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, dispatcher *broadcast.Dispatcher) *PostService {
	return &PostService{posts: posts, users: users, dispatcher: dispatcher}
}

// Create persists a new top-level post and announces it on the public posts
// channel plus the author's private channel.
func (s *PostService) Create(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.Post, error) {
	postType := req.Type
	if postType == "" {
		postType = models.PostTypeText
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &models.Post{
		UserID:   userID,
		Content:  req.Content,
		Type:     postType,
		Media:    req.Media,
		IsPublic: isPublic,
	}
	if err := s.posts.CreatePost(post); err != nil {
		return nil, err
	}

	author, err := s.users.GetUserByID(userID)
	if err != nil {
		author = &models.User{ID: userID}
	}
	s.dispatcher.Dispatch(ctx, broadcast.EventPostCreated, broadcast.PostPayload{
		ID:        post.ID,
		Content:   post.Content,
		Type:      post.Type,
		Author:    userRef(author),
		CreatedAt: post.CreatedAt,
	}, broadcast.PostsChannel, broadcast.UserChannel(userID))

	return post, nil
}

// CreateShared derives a timeline post from a share. A share of a shared
// post is flattened onto the original at write time.
func (s *PostService) CreateShared(userID uint, originalID uint, content, privacy string) (*models.Post, error) {
	original, err := s.GetVisible(originalID, userID)
	if err != nil {
		return nil, err
	}

	targetID := original.ID
	if original.IsShared && original.SharedPostID != nil {
		targetID = *original.SharedPostID
	}

	post := &models.Post{
		UserID:       userID,
		Content:      content,
		Type:         models.PostTypeShared,
		IsPublic:     privacy != models.SharePrivacyOnlyMe,
		IsShared:     true,
		SharedPostID: &targetID,
	}
	if err := s.posts.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetVisible returns the post if the viewer may see it: public posts for
// anyone, private ones only for their owner.
func (s *PostService) GetVisible(postID, viewerID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	if !post.IsPublic && post.UserID != viewerID {
		return nil, apperrors.NotFound("post not found or not accessible")
	}
	return post, nil
}

// Update mutates a post's content or visibility. Owner only.
func (s *PostService) Update(postID, userID uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperrors.Unauthorized("you can only edit your own posts")
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}
	if err := s.posts.UpdatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. Owner only. Shared posts referencing it keep their
// weak reference; they are not cascaded.
func (s *PostService) Delete(postID, userID uint) error {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("post not found")
		}
		return err
	}
	if post.UserID != userID {
		return apperrors.Unauthorized("you can only delete your own posts")
	}
	return s.posts.DeletePost(postID)
}

// FeedForUser returns a user's own posts, newest first
func (s *PostService) FeedForUser(userID uint, page, limit int) ([]models.Post, int64, error) {
	return s.posts.GetPostsByUserID(userID, page, limit)
}

// PublicPostsForUser returns a user's public posts, newest first
func (s *PostService) PublicPostsForUser(userID uint, page, limit int) ([]models.Post, int64, error) {
	return s.posts.GetPublicPostsByUserID(userID, page, limit)
}

// PublicFeed returns the public feed, newest first
func (s *PostService) PublicFeed(page, limit int) ([]models.Post, int64, error) {
	return s.posts.GetPublicPosts(page, limit)
}
