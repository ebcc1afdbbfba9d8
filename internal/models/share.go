package models

import "gorm.io/gorm"

// Share types
const (
	ShareTypeTimeline = "timeline"
	ShareTypeStory    = "story"
	ShareTypeMessage  = "message"
	ShareTypeCopyLink = "copy_link"
)

// Share privacy levels
const (
	SharePrivacyPublic  = "public"
	SharePrivacyFriends = "friends"
	SharePrivacyOnlyMe  = "only_me"
)

// Share records a user redistributing a post through one of the share
// channels. Uniqueness of (user, post, share_type) is enforced for every
// type except "timeline", which permits unlimited repeats. The exemption is
// a confirmed product rule, not an accident.
type Share struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;uniqueIndex:idx_shares_non_timeline,priority:1,where:share_type <> 'timeline'"`
	PostID    uint   `json:"post_id" gorm:"index;uniqueIndex:idx_shares_non_timeline,priority:2,where:share_type <> 'timeline'"`
	ShareType string `json:"share_type" gorm:"type:varchar(20);uniqueIndex:idx_shares_non_timeline,priority:3,where:share_type <> 'timeline'"`
	Content   string `json:"content"`
	Privacy   string `json:"privacy" gorm:"type:varchar(20);default:'public'"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Post *Post `json:"post,omitempty" gorm:"foreignKey:PostID"`
}

// SharePostRequest defines the request body for sharing a post
type SharePostRequest struct {
	ShareType string `json:"share_type" validate:"required,oneof=timeline story message copy_link"`
	Content   string `json:"content,omitempty" validate:"omitempty,max=1000"`
	Privacy   string `json:"privacy,omitempty" validate:"omitempty,oneof=public friends only_me"`
}

// UnsharePostRequest defines the request body for removing a share
type UnsharePostRequest struct {
	ShareType string `json:"share_type" validate:"required,oneof=timeline story message copy_link"`
}

// ShareStats summarizes share counts for a post, broken down by type.
type ShareStats struct {
	TotalShares    int64 `json:"total_shares"`
	TimelineShares int64 `json:"timeline_shares"`
	StoryShares    int64 `json:"story_shares"`
	MessageShares  int64 `json:"message_shares"`
	CopyLinkShares int64 `json:"copy_link_shares"`
	UserHasShared  bool  `json:"user_has_shared"`
}
