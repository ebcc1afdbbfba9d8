package broadcast

import "time"

// Every event payload is a flat, pre-shaped object rather than a raw
// entity, so receivers never need an additional fetch.

// UserRef is the minimal user shape embedded in payloads.
type UserRef struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// FriendRequestPayload is sent to the recipient's private channel when a
// friend request is created.
type FriendRequestPayload struct {
	FriendshipID uint      `json:"friendship_id"`
	From         UserRef   `json:"from"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// FriendshipStatusPayload is sent to both parties on accept/reject/block.
// For rejections it is shaped before the row is deleted.
type FriendshipStatusPayload struct {
	FriendshipID uint    `json:"friendship_id"`
	Requester    UserRef `json:"requester"`
	Recipient    UserRef `json:"recipient"`
	Status       string  `json:"status"`
}

// NotificationPayload mirrors the read-time notification view.
type NotificationPayload struct {
	ID        uint           `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Icon      string         `json:"icon"`
	Color     string         `json:"color"`
	URL       string         `json:"url,omitempty"`
	Sender    *UserRef       `json:"sender,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// PostPayload announces a new top-level post on the public posts channel.
type PostPayload struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Author    UserRef   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// PostLikedPayload is scoped to the post channel plus the author's channel.
type PostLikedPayload struct {
	LikeID    uint      `json:"like_id"`
	PostID    uint      `json:"post_id"`
	LikedBy   UserRef   `json:"liked_by"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}

// PostSharedPayload announces a share on the posts channel and to the
// original author.
type PostSharedPayload struct {
	ShareID   uint      `json:"share_id"`
	PostID    uint      `json:"post_id"`
	SharedBy  UserRef   `json:"shared_by"`
	ShareType string    `json:"share_type"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPayload is scoped to the post channel.
type CommentPayload struct {
	CommentID uint      `json:"comment_id"`
	PostID    uint      `json:"post_id"`
	ParentID  *uint     `json:"parent_id,omitempty"`
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagePayload carries a new or edited message on the conversation channel.
type MessagePayload struct {
	MessageID      uint      `json:"message_id"`
	ConversationID uint      `json:"conversation_id"`
	Sender         UserRef   `json:"sender"`
	Content        string    `json:"content"`
	Type           string    `json:"type"`
	Media          []string  `json:"media,omitempty"`
	IsEdited       bool      `json:"is_edited"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserStatusPayload carries online/offline transitions on the public
// status channel.
type UserStatusPayload struct {
	UserID   uint       `json:"user_id"`
	UserName string     `json:"user_name"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}
