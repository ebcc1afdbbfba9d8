package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. One level of reply nesting is
// supported: a reply to a reply collapses onto the same parent.
type Comment struct {
	gorm.Model
	PostID   uint       `json:"post_id" gorm:"index"`
	UserID   uint       `json:"user_id" gorm:"index"`
	Content  string     `json:"content"`
	ParentID *uint      `json:"parent_id,omitempty" gorm:"index"`
	IsEdited bool       `json:"is_edited" gorm:"default:false"`
	EditedAt *time.Time `json:"edited_at,omitempty"`

	User    *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
