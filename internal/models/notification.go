package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Notification types
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationPostLike       = "post_like"
	NotificationPostComment    = "post_comment"
	NotificationPostShare      = "post_share"
	NotificationCommentLike    = "comment_like"
	NotificationMention        = "mention"
	NotificationTag            = "tag"
)

// NotifiableKind tags the entity a notification refers to, so consumers
// match known kinds exhaustively instead of relying on runtime type lookup.
type NotifiableKind string

const (
	NotifiableNone    NotifiableKind = ""
	NotifiablePost    NotifiableKind = "post"
	NotifiableComment NotifiableKind = "comment"
	NotifiableUser    NotifiableKind = "user"
)

// Notifiable is the tagged reference to the entity a notification is about.
type Notifiable struct {
	Kind NotifiableKind
	ID   uint
}

// Notification is created by the notification engine only, never directly
// by controllers. The sender is a weak reference kept for display.
type Notification struct {
	gorm.Model
	Type           string         `json:"type" gorm:"type:varchar(30);index"`
	UserID         uint           `json:"user_id" gorm:"index:idx_notifications_user_read,priority:1;index:idx_notifications_user_created,priority:1"`
	SenderID       *uint          `json:"sender_id,omitempty" gorm:"index"`
	NotifiableKind NotifiableKind `json:"notifiable_kind,omitempty" gorm:"type:varchar(20);index:idx_notifications_notifiable,priority:1"`
	NotifiableID   uint           `json:"notifiable_id,omitempty" gorm:"index:idx_notifications_notifiable,priority:2"`
	Data           map[string]any `json:"data,omitempty" gorm:"serializer:json"`
	Read           bool           `json:"read" gorm:"default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// senderName resolves the display name used in derived fields.
func (n *Notification) senderName() string {
	if n.Sender != nil && n.Sender.Name != "" {
		return n.Sender.Name
	}
	return "Someone"
}

// FormattedMessage renders the human-readable line for the notification.
// Derived at read time, never stored.
func (n *Notification) FormattedMessage() string {
	name := n.senderName()
	switch n.Type {
	case NotificationFriendRequest:
		return fmt.Sprintf("%s sent you a friend request", name)
	case NotificationFriendAccepted:
		return fmt.Sprintf("%s accepted your friend request", name)
	case NotificationPostLike:
		return fmt.Sprintf("%s liked your post", name)
	case NotificationPostComment:
		return fmt.Sprintf("%s commented on your post", name)
	case NotificationPostShare:
		return fmt.Sprintf("%s shared your post", name)
	case NotificationCommentLike:
		return fmt.Sprintf("%s liked your comment", name)
	case NotificationMention:
		return fmt.Sprintf("%s mentioned you in a post", name)
	case NotificationTag:
		return fmt.Sprintf("%s tagged you in a post", name)
	default:
		return fmt.Sprintf("%s interacted with your content", name)
	}
}

// Icon returns the client icon tag for the notification type.
func (n *Notification) Icon() string {
	switch n.Type {
	case NotificationFriendRequest, NotificationFriendAccepted:
		return "user-plus"
	case NotificationPostLike, NotificationCommentLike:
		return "heart"
	case NotificationPostComment:
		return "message-circle"
	case NotificationPostShare:
		return "share-2"
	case NotificationMention, NotificationTag:
		return "at-sign"
	default:
		return "bell"
	}
}

// Color returns the client color tag for the notification type.
func (n *Notification) Color() string {
	switch n.Type {
	case NotificationFriendRequest, NotificationFriendAccepted:
		return "blue"
	case NotificationPostLike, NotificationCommentLike:
		return "red"
	case NotificationPostComment:
		return "green"
	case NotificationPostShare:
		return "purple"
	case NotificationMention, NotificationTag:
		return "yellow"
	default:
		return "gray"
	}
}

// URL returns the client navigation target, or "" when there is none.
func (n *Notification) URL() string {
	switch n.Type {
	case NotificationFriendRequest:
		return "/friends/requests"
	case NotificationFriendAccepted:
		if n.SenderID != nil {
			return fmt.Sprintf("/profile/%d", *n.SenderID)
		}
		return ""
	case NotificationPostLike, NotificationPostComment, NotificationPostShare:
		return fmt.Sprintf("/posts/%d", n.NotifiableID)
	case NotificationCommentLike, NotificationMention, NotificationTag:
		if postID, ok := n.Data["post_id"]; ok {
			return fmt.Sprintf("/posts/%v", postID)
		}
		return ""
	default:
		return ""
	}
}

// NotificationView is the read-time shape of a notification with the
// derived presentation fields attached.
type NotificationView struct {
	Notification
	Message string `json:"message"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	URL     string `json:"url,omitempty"`
}

// View attaches the derived presentation fields.
func (n *Notification) View() NotificationView {
	return NotificationView{
		Notification: *n,
		Message:      n.FormattedMessage(),
		Icon:         n.Icon(),
		Color:        n.Color(),
		URL:          n.URL(),
	}
}
