package services

import (
	"context"
	"time"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// likeDedupWindow bounds how long an unread like notification suppresses a
// repeat from the same sender on the same target.
const likeDedupWindow = 24 * time.Hour

// DefaultRetentionDays is how long read notifications are kept before the
// cleanup pass purges them.
const DefaultRetentionDays = 30

// commentPreviewRunes caps the comment excerpt carried in a notification
// payload, counted in runes so multi-byte text is never split mid-character.
const commentPreviewRunes = 100

// NotificationService creates, deduplicates, and counts notifications
// triggered by social actions. It is the only writer of notification rows.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	dispatcher    *broadcast.Dispatcher
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, dispatcher *broadcast.Dispatcher) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		dispatcher:    dispatcher,
	}
}

// Create persists a notification and broadcasts it to the recipient's
// private channel. Self-actions and deduplicated repeats are skipped and
// return (nil, nil).
func (s *NotificationService) Create(ctx context.Context, notifType string, recipientID uint, senderID *uint, notifiable models.Notifiable, data map[string]any) (*models.Notification, error) {
	if senderID != nil && *senderID == recipientID {
		return nil, nil
	}

	skip, err := s.shouldSkip(notifType, recipientID, senderID, notifiable)
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, nil
	}

	notification := &models.Notification{
		Type:           notifType,
		UserID:         recipientID,
		SenderID:       senderID,
		NotifiableKind: notifiable.Kind,
		NotifiableID:   notifiable.ID,
		Data:           data,
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return nil, apperrors.Internal("failed to create notification", err)
	}

	if senderID != nil {
		if sender, err := s.users.GetUserByID(*senderID); err == nil {
			notification.Sender = sender
		}
	}

	s.broadcastCreated(ctx, notification)
	return notification, nil
}

// shouldSkip applies the deduplication policy: likes are suppressed while an
// unread twin from the last 24 hours exists, friend requests while any
// unread one from the same sender exists. Everything else always notifies.
func (s *NotificationService) shouldSkip(notifType string, recipientID uint, senderID *uint, notifiable models.Notifiable) (bool, error) {
	if senderID == nil {
		return false, nil
	}

	switch notifType {
	case models.NotificationPostLike, models.NotificationCommentLike:
		if notifiable.Kind == models.NotifiableNone {
			return false, nil
		}
		since := time.Now().Add(-likeDedupWindow)
		return s.notifications.HasUnreadLikeSince(notifType, recipientID, *senderID, notifiable.Kind, notifiable.ID, since)
	case models.NotificationFriendRequest:
		return s.notifications.HasUnreadFromSender(notifType, recipientID, *senderID)
	}
	return false, nil
}

func (s *NotificationService) broadcastCreated(ctx context.Context, n *models.Notification) {
	payload := broadcast.NotificationPayload{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.FormattedMessage(),
		Icon:      n.Icon(),
		Color:     n.Color(),
		URL:       n.URL(),
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
	if n.Sender != nil {
		ref := userRef(n.Sender)
		payload.Sender = &ref
	}
	s.dispatcher.Dispatch(ctx, broadcast.EventNotificationSent, payload, broadcast.UserChannel(n.UserID))
}

// FriendRequest notifies a user of an incoming friend request
func (s *NotificationService) FriendRequest(ctx context.Context, recipientID, senderID uint) (*models.Notification, error) {
	return s.Create(ctx, models.NotificationFriendRequest, recipientID, &senderID, models.Notifiable{Kind: models.NotifiableUser, ID: senderID}, nil)
}

// FriendAccepted notifies the original requester that their request was accepted
func (s *NotificationService) FriendAccepted(ctx context.Context, recipientID, senderID uint) (*models.Notification, error) {
	return s.Create(ctx, models.NotificationFriendAccepted, recipientID, &senderID, models.Notifiable{Kind: models.NotifiableUser, ID: senderID}, nil)
}

// PostLike notifies a post's author of a like
func (s *NotificationService) PostLike(ctx context.Context, post *models.Post, senderID uint) (*models.Notification, error) {
	return s.Create(ctx, models.NotificationPostLike, post.UserID, &senderID, models.Notifiable{Kind: models.NotifiablePost, ID: post.ID}, nil)
}

// PostComment notifies a post's author of a comment, carrying a preview
func (s *NotificationService) PostComment(ctx context.Context, post *models.Post, comment *models.Comment, senderID uint) (*models.Notification, error) {
	preview := comment.Content
	if runes := []rune(preview); len(runes) > commentPreviewRunes {
		preview = string(runes[:commentPreviewRunes])
	}
	data := map[string]any{
		"comment_id":      comment.ID,
		"comment_content": preview,
	}
	return s.Create(ctx, models.NotificationPostComment, post.UserID, &senderID, models.Notifiable{Kind: models.NotifiablePost, ID: post.ID}, data)
}

// PostShare notifies a post's author of a share
func (s *NotificationService) PostShare(ctx context.Context, post *models.Post, senderID uint) (*models.Notification, error) {
	return s.Create(ctx, models.NotificationPostShare, post.UserID, &senderID, models.Notifiable{Kind: models.NotifiablePost, ID: post.ID}, nil)
}

// CommentLike notifies a comment's author of a like
func (s *NotificationService) CommentLike(ctx context.Context, comment *models.Comment, senderID uint) (*models.Notification, error) {
	data := map[string]any{"post_id": comment.PostID}
	return s.Create(ctx, models.NotificationCommentLike, comment.UserID, &senderID, models.Notifiable{Kind: models.NotifiableComment, ID: comment.ID}, data)
}

// Mention notifies a user they were mentioned in a post
func (s *NotificationService) Mention(ctx context.Context, post *models.Post, recipientID, senderID uint) (*models.Notification, error) {
	data := map[string]any{"post_id": post.ID}
	return s.Create(ctx, models.NotificationMention, recipientID, &senderID, models.Notifiable{Kind: models.NotifiablePost, ID: post.ID}, data)
}

// Tag notifies a user they were tagged in a post
func (s *NotificationService) Tag(ctx context.Context, post *models.Post, recipientID, senderID uint) (*models.Notification, error) {
	data := map[string]any{"post_id": post.ID}
	return s.Create(ctx, models.NotificationTag, recipientID, &senderID, models.Notifiable{Kind: models.NotifiablePost, ID: post.ID}, data)
}

// List returns a page of the recipient's notifications with derived
// presentation fields attached.
func (s *NotificationService) List(recipientID uint, page, limit int) ([]models.NotificationView, int64, error) {
	notifications, total, err := s.notifications.GetByRecipientID(recipientID, page, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list notifications", err)
	}
	views := make([]models.NotificationView, 0, len(notifications))
	for i := range notifications {
		views = append(views, notifications[i].View())
	}
	return views, total, nil
}

// UnreadCount returns the recipient's unread notification count
func (s *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	return s.notifications.GetUnreadCount(recipientID)
}

// MarkAsRead flips a notification to read. Idempotent; only the owner may call.
func (s *NotificationService) MarkAsRead(notificationID, userID uint) error {
	notification, err := s.notifications.GetNotificationByID(notificationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("notification not found")
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.Unauthorized("notification does not belong to you")
	}
	if notification.Read {
		return nil
	}
	return s.notifications.MarkAsRead(notificationID, time.Now())
}

// MarkAsUnread flips a notification back to unread. Idempotent.
func (s *NotificationService) MarkAsUnread(notificationID, userID uint) error {
	notification, err := s.notifications.GetNotificationByID(notificationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("notification not found")
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.Unauthorized("notification does not belong to you")
	}
	if !notification.Read {
		return nil
	}
	return s.notifications.MarkAsUnread(notificationID)
}

// MarkAllAsRead marks every unread notification of the recipient as read
func (s *NotificationService) MarkAllAsRead(recipientID uint) error {
	return s.notifications.MarkAllAsRead(recipientID, time.Now())
}

// Delete removes a single notification owned by the caller
func (s *NotificationService) Delete(notificationID, userID uint) error {
	notification, err := s.notifications.GetNotificationByID(notificationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("notification not found")
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.Unauthorized("notification does not belong to you")
	}
	return s.notifications.DeleteNotification(notificationID)
}

// DeleteAllRead removes every read notification of the recipient
func (s *NotificationService) DeleteAllRead(recipientID uint) (int64, error) {
	return s.notifications.DeleteAllRead(recipientID)
}

// CleanupOld purges read notifications whose read_at is older than the
// given number of days. Non-positive days falls back to the default.
func (s *NotificationService) CleanupOld(days int) (int64, error) {
	if days <= 0 {
		days = DefaultRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return s.notifications.DeleteReadOlderThan(cutoff)
}
