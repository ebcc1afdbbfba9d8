package services

import (
	"context"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// ShareService records post shares. Uniqueness of (user, post, type) holds
// for story, message, and copy_link shares; timeline shares may repeat
// without bound. The asymmetry is intentional product behavior.
type ShareService struct {
	shares        repositories.ShareRepository
	posts         *PostService
	users         repositories.UserRepository
	notifications *NotificationService
	dispatcher    *broadcast.Dispatcher
}

// NewShareService creates a new ShareService
func NewShareService(shares repositories.ShareRepository, posts *PostService, users repositories.UserRepository, notifications *NotificationService, dispatcher *broadcast.Dispatcher) *ShareService {
	return &ShareService{
		shares:        shares,
		posts:         posts,
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// SharePost shares a post through the given channel type.
func (s *ShareService) SharePost(ctx context.Context, postID, userID uint, req models.SharePostRequest) (*models.Share, error) {
	post, err := s.posts.GetVisible(postID, userID)
	if err != nil {
		return nil, err
	}

	if req.ShareType != models.ShareTypeTimeline {
		if _, err := s.shares.GetShare(userID, postID, req.ShareType); err == nil {
			return nil, apperrors.Duplicate("you have already shared this post")
		} else if !repositories.IsNotFound(err) {
			return nil, err
		}
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = models.SharePrivacyPublic
	}

	share := &models.Share{
		UserID:    userID,
		PostID:    post.ID,
		ShareType: req.ShareType,
		Content:   req.Content,
		Privacy:   privacy,
	}
	if err := s.shares.CreateShare(share); err != nil {
		if repositories.IsConflict(err) {
			return nil, apperrors.Conflict("you have already shared this post")
		}
		return nil, err
	}

	// A timeline share also surfaces as a derived post in the sharer's feed.
	if req.ShareType == models.ShareTypeTimeline {
		if _, err := s.posts.CreateShared(userID, post.ID, req.Content, privacy); err != nil {
			return nil, err
		}
	}

	if _, err := s.notifications.PostShare(ctx, post, userID); err != nil {
		return nil, err
	}

	sharer, err := s.users.GetUserByID(userID)
	if err != nil {
		sharer = &models.User{ID: userID}
	}
	s.dispatcher.Dispatch(ctx, broadcast.EventPostShared, broadcast.PostSharedPayload{
		ShareID:   share.ID,
		PostID:    post.ID,
		SharedBy:  userRef(sharer),
		ShareType: share.ShareType,
		Content:   share.Content,
		CreatedAt: share.CreatedAt,
	}, broadcast.PostsChannel, broadcast.UserChannel(post.UserID))

	return share, nil
}

// Unshare removes the caller's share of the given type
func (s *ShareService) Unshare(postID, userID uint, shareType string) error {
	share, err := s.shares.GetShare(userID, postID, shareType)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("share not found")
		}
		return err
	}
	return s.shares.DeleteShare(share.ID)
}

// SharesForPost lists a post's public shares
func (s *ShareService) SharesForPost(postID uint, page, limit int) ([]models.Share, int64, error) {
	return s.shares.GetSharesByPostID(postID, page, limit)
}

// SharesForUser lists the caller's shares
func (s *ShareService) SharesForUser(userID uint, page, limit int) ([]models.Share, int64, error) {
	return s.shares.GetSharesByUserID(userID, page, limit)
}

// Stats summarizes share counts for a post by type
func (s *ShareService) Stats(postID, viewerID uint) (*models.ShareStats, error) {
	stats := &models.ShareStats{}
	var err error

	if stats.TotalShares, err = s.shares.GetSharesCountByPostID(postID); err != nil {
		return nil, err
	}
	if stats.TimelineShares, err = s.shares.GetSharesCountByPostIDAndType(postID, models.ShareTypeTimeline); err != nil {
		return nil, err
	}
	if stats.StoryShares, err = s.shares.GetSharesCountByPostIDAndType(postID, models.ShareTypeStory); err != nil {
		return nil, err
	}
	if stats.MessageShares, err = s.shares.GetSharesCountByPostIDAndType(postID, models.ShareTypeMessage); err != nil {
		return nil, err
	}
	if stats.CopyLinkShares, err = s.shares.GetSharesCountByPostIDAndType(postID, models.ShareTypeCopyLink); err != nil {
		return nil, err
	}
	if stats.UserHasShared, err = s.shares.HasUserSharedPost(viewerID, postID); err != nil {
		return nil, err
	}
	return stats, nil
}
