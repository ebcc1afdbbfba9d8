package models

import "gorm.io/gorm"

// Like models both post likes and comment likes through nullable dual
// foreign keys: exactly one of PostID/CommentID is set. The partial unique
// indexes make a repeat like by the same user a store-level conflict.
type Like struct {
	gorm.Model
	UserID    uint  `json:"user_id" gorm:"index;uniqueIndex:idx_likes_user_post,priority:1;uniqueIndex:idx_likes_user_comment,priority:1"`
	PostID    *uint `json:"post_id,omitempty" gorm:"uniqueIndex:idx_likes_user_post,priority:2"`
	CommentID *uint `json:"comment_id,omitempty" gorm:"uniqueIndex:idx_likes_user_comment,priority:2"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TargetsPost reports whether the like is attached to a post.
func (l *Like) TargetsPost() bool { return l.PostID != nil }
