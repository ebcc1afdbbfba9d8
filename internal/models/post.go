package models

import "gorm.io/gorm"

// Post types
const (
	PostTypeText   = "text"
	PostTypeImage  = "image"
	PostTypeVideo  = "video"
	PostTypeLink   = "link"
	PostTypeShared = "shared"
)

// Post represents a social media post. Media keeps its insertion order.
// A shared post weakly references another post; shared_post_id is always nil
// for non-shared posts, and a share of a share points at the original.
type Post struct {
	gorm.Model
	UserID       uint     `json:"user_id" gorm:"index"`
	Content      string   `json:"content"`
	Type         string   `json:"type" gorm:"type:varchar(20);default:'text'"`
	Media        []string `json:"media" gorm:"serializer:json"`
	IsPublic     bool     `json:"is_public" gorm:"default:true"`
	IsShared     bool     `json:"is_shared" gorm:"default:false"`
	SharedPostID *uint    `json:"shared_post_id,omitempty" gorm:"index"`

	User       *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SharedPost *Post `json:"shared_post,omitempty" gorm:"foreignKey:SharedPostID"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required_without=Media,omitempty,max=5000"`
	Type     string   `json:"type,omitempty" validate:"omitempty,oneof=text image video link"`
	Media    []string `json:"media,omitempty" validate:"omitempty,dive,min=1"`
	IsPublic *bool    `json:"is_public,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,max=5000"`
	IsPublic *bool  `json:"is_public,omitempty"`
}
