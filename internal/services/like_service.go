package services

import (
	"context"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// LikeService toggles likes on posts and comments. The first call by a user
// creates the like, the next removes it; the count always reflects net state.
type LikeService struct {
	likes         repositories.LikeRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	users         repositories.UserRepository
	notifications *NotificationService
	dispatcher    *broadcast.Dispatcher
}

// NewLikeService creates a new LikeService
func NewLikeService(likes repositories.LikeRepository, posts repositories.PostRepository, comments repositories.CommentRepository, users repositories.UserRepository, notifications *NotificationService, dispatcher *broadcast.Dispatcher) *LikeService {
	return &LikeService{
		likes:         likes,
		posts:         posts,
		comments:      comments,
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// TogglePostLike likes or unlikes a post. Returns whether the post is liked
// after the call, plus the resulting like count.
func (s *LikeService) TogglePostLike(ctx context.Context, postID, userID uint) (bool, int64, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, 0, apperrors.NotFound("post not found")
		}
		return false, 0, err
	}

	existing, err := s.likes.GetPostLike(postID, userID)
	if err != nil && !repositories.IsNotFound(err) {
		return false, 0, err
	}

	if existing != nil {
		if err := s.likes.DeleteLike(existing.ID); err != nil {
			return false, 0, err
		}
		count, err := s.likes.GetLikesCountByPostID(postID)
		return false, count, err
	}

	like := &models.Like{UserID: userID, PostID: &postID}
	if err := s.likes.CreateLike(like); err != nil {
		if repositories.IsConflict(err) {
			// Concurrent double-tap; treat as already liked.
			count, countErr := s.likes.GetLikesCountByPostID(postID)
			return true, count, countErr
		}
		return false, 0, err
	}

	if _, err := s.notifications.PostLike(ctx, post, userID); err != nil {
		return false, 0, err
	}

	count, err := s.likes.GetLikesCountByPostID(postID)
	if err != nil {
		return true, 0, err
	}

	liker, err := s.users.GetUserByID(userID)
	if err != nil {
		liker = &models.User{ID: userID}
	}
	s.dispatcher.Dispatch(ctx, broadcast.EventPostLiked, broadcast.PostLikedPayload{
		LikeID:    like.ID,
		PostID:    postID,
		LikedBy:   userRef(liker),
		LikeCount: count,
		CreatedAt: like.CreatedAt,
	}, broadcast.PostChannel(postID), broadcast.UserChannel(post.UserID))

	return true, count, nil
}

// ToggleCommentLike likes or unlikes a comment
func (s *LikeService) ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, int64, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, 0, apperrors.NotFound("comment not found")
		}
		return false, 0, err
	}

	existing, err := s.likes.GetCommentLike(commentID, userID)
	if err != nil && !repositories.IsNotFound(err) {
		return false, 0, err
	}

	if existing != nil {
		if err := s.likes.DeleteLike(existing.ID); err != nil {
			return false, 0, err
		}
		count, err := s.likes.GetLikesCountByCommentID(commentID)
		return false, count, err
	}

	like := &models.Like{UserID: userID, CommentID: &commentID}
	if err := s.likes.CreateLike(like); err != nil {
		if repositories.IsConflict(err) {
			count, countErr := s.likes.GetLikesCountByCommentID(commentID)
			return true, count, countErr
		}
		return false, 0, err
	}

	if _, err := s.notifications.CommentLike(ctx, comment, userID); err != nil {
		return false, 0, err
	}

	count, err := s.likes.GetLikesCountByCommentID(commentID)
	return true, count, err
}

// Likers lists the likes on a post with their users attached
func (s *LikeService) Likers(postID uint) ([]models.Like, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	return s.likes.GetLikesByPostID(postID)
}

// PostLikeCount returns the net like count of a post
func (s *LikeService) PostLikeCount(postID uint) (int64, error) {
	return s.likes.GetLikesCountByPostID(postID)
}

// HasLikedPost reports whether the user currently likes the post
func (s *LikeService) HasLikedPost(postID, userID uint) (bool, error) {
	_, err := s.likes.GetPostLike(postID, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
