package broadcast

import "fmt"

// Channel scoping rules. Private channels require subscribe-time
// authorization in the realtime gateway; public channels do not.
const (
	// PostsChannel carries new top-level posts and timeline shares.
	PostsChannel = "posts"
	// UserStatusChannel carries online/offline broadcasts.
	UserStatusChannel = "user.status"
)

// UserChannel is the private per-user channel for notifications and
// friendship events targeted at that user.
func UserChannel(userID uint) string {
	return fmt.Sprintf("user.%d", userID)
}

// PostChannel is the public per-post channel for likes, comments, and
// shares scoped to viewers of that post.
func PostChannel(postID uint) string {
	return fmt.Sprintf("post.%d", postID)
}

// ConversationChannel is the private per-conversation channel, authorized
// only for members.
func ConversationChannel(conversationID uint) string {
	return fmt.Sprintf("conversation.%d", conversationID)
}

// Event names
const (
	EventFriendRequestReceived   = "friendship.request_received"
	EventFriendshipStatusChanged = "friendship.status_changed"
	EventNotificationSent        = "notification.sent"
	EventPostCreated             = "post.created"
	EventPostLiked               = "post.liked"
	EventPostShared              = "post.shared"
	EventCommentCreated          = "comment.created"
	EventMessageNew              = "message.new"
	EventMessageUpdated          = "message.updated"
	EventUserStatus              = "user.status"
)
