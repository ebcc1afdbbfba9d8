package services

import (
	"context"
	"time"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// CommentService adds and mutates comments. Nesting is capped at one level:
// a reply to a reply is attached to the reply's own parent.
type CommentService struct {
	comments      repositories.CommentRepository
	posts         repositories.PostRepository
	users         repositories.UserRepository
	notifications *NotificationService
	dispatcher    *broadcast.Dispatcher
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, users repositories.UserRepository, notifications *NotificationService, dispatcher *broadcast.Dispatcher) *CommentService {
	return &CommentService{
		comments:      comments,
		posts:         posts,
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// Add creates a comment or reply on a post and notifies the post's author.
func (s *CommentService) Add(ctx context.Context, postID, userID uint, content string, parentID *uint) (*models.Comment, error) {
	post, err := s.posts.GetPostByID(postID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.comments.GetCommentByID(*parentID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, apperrors.NotFound("parent comment not found")
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.Validation("parent comment belongs to a different post")
		}
		// Collapse reply-of-reply onto the top-level parent.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, err
	}

	if _, err := s.notifications.PostComment(ctx, post, comment, userID); err != nil {
		return nil, err
	}

	author, err := s.users.GetUserByID(userID)
	if err != nil {
		author = &models.User{ID: userID}
	}
	s.dispatcher.Dispatch(ctx, broadcast.EventCommentCreated, broadcast.CommentPayload{
		CommentID: comment.ID,
		PostID:    postID,
		ParentID:  comment.ParentID,
		Author:    userRef(author),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}, broadcast.PostChannel(postID))

	return comment, nil
}

// Edit updates a comment's content. Owner only; stamps the edit audit fields.
func (s *CommentService) Edit(commentID, userID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperrors.Unauthorized("you can only edit your own comments")
	}

	now := time.Now()
	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &now
	if err := s.comments.UpdateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. The comment's author or the post's owner may
// delete it.
func (s *CommentService) Delete(commentID, userID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("comment not found")
		}
		return err
	}

	if comment.UserID != userID {
		post, err := s.posts.GetPostByID(comment.PostID)
		if err != nil || post.UserID != userID {
			return apperrors.Unauthorized("you cannot delete this comment")
		}
	}
	return s.comments.DeleteComment(commentID)
}

// ListForPost retrieves top-level comments with their replies
func (s *CommentService) ListForPost(postID uint) ([]models.Comment, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	return s.comments.GetCommentsByPostID(postID)
}

// CountForPost counts all comments on a post, replies included
func (s *CommentService) CountForPost(postID uint) (int64, error) {
	return s.comments.GetCommentsCountByPostID(postID)
}
