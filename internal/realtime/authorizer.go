package realtime

import (
	"strconv"
	"strings"

	"github.com/wavely-app/backend/internal/broadcast"
)

// MembershipChecker answers whether a user belongs to a conversation.
// Satisfied by the conversation service.
type MembershipChecker interface {
	IsMember(conversationID, userID uint) (bool, error)
}

// Authorizer gates channel subscriptions. Public channels (posts, per-post,
// user.status) are open to any authenticated connection. Private per-user
// channels admit only their owner, and per-conversation channels admit only
// members.
type Authorizer struct {
	members MembershipChecker
}

// NewAuthorizer creates an Authorizer
func NewAuthorizer(members MembershipChecker) *Authorizer {
	return &Authorizer{members: members}
}

// CanSubscribe reports whether userID may join the named channel. Malformed
// channel names are denied, not errored.
func (a *Authorizer) CanSubscribe(userID uint, channel string) (bool, error) {
	switch {
	case channel == broadcast.PostsChannel, channel == broadcast.UserStatusChannel:
		return true, nil
	case strings.HasPrefix(channel, "post."):
		_, err := parseChannelID(channel, "post.")
		return err == nil, nil
	case strings.HasPrefix(channel, "user."):
		id, err := parseChannelID(channel, "user.")
		if err != nil {
			return false, nil
		}
		return id == userID, nil
	case strings.HasPrefix(channel, "conversation."):
		id, err := parseChannelID(channel, "conversation.")
		if err != nil {
			return false, nil
		}
		return a.members.IsMember(id, userID)
	}
	return false, nil
}

func parseChannelID(channel, prefix string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(channel, prefix), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
