package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation types
const (
	ConversationPrivate = "private"
	ConversationGroup   = "group"
)

// Conversation is a private (two-member) or group chat. Private
// conversations are deduplicated per user pair; none are ever auto-deleted.
type Conversation struct {
	gorm.Model
	Type   string `json:"type" gorm:"type:varchar(20);not null;index"`
	Name   string `json:"name,omitempty" gorm:"size:255"`
	Avatar string `json:"avatar,omitempty"`

	Members  []ConversationMember `json:"members,omitempty" gorm:"foreignKey:ConversationID"`
	Messages []Message            `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

func (c *Conversation) IsGroup() bool   { return c.Type == ConversationGroup }
func (c *Conversation) IsPrivate() bool { return c.Type == ConversationPrivate }

// ConversationMember joins a user to a conversation. LastReadAt is the
// per-user read watermark driving unread counts; nil means never read.
type ConversationMember struct {
	gorm.Model
	ConversationID uint       `json:"conversation_id" gorm:"uniqueIndex:idx_conversation_member,priority:1"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:idx_conversation_member,priority:2;index"`
	LastReadAt     *time.Time `json:"last_read_at,omitempty"`
	IsMuted        bool       `json:"is_muted" gorm:"default:false"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// CreateGroupRequest defines the request body for creating a group conversation
type CreateGroupRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Avatar  string `json:"avatar,omitempty"`
	UserIDs []uint `json:"user_ids" validate:"required,min=2,dive,min=1"`
}

// GroupMembersRequest defines the request body for adding group members
type GroupMembersRequest struct {
	UserIDs []uint `json:"user_ids" validate:"required,min=1,dive,min=1"`
}

// ConversationSummary is the list view of a conversation for one user:
// the record itself plus derived unread state and the latest message.
type ConversationSummary struct {
	Conversation Conversation `json:"conversation"`
	UnreadCount  int64        `json:"unread_count"`
	LastMessage  *Message     `json:"last_message,omitempty"`
	IsMuted      bool         `json:"is_muted"`
}
