package models

import "gorm.io/gorm"

// Profile holds the public-facing identity of a user. Created alongside the
// user and mutated only by its owner.
type Profile struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"uniqueIndex"`
	Username   string `json:"username" gorm:"uniqueIndex;size:50"`
	Bio        string `json:"bio" gorm:"size:500"`
	Avatar     string `json:"avatar"`      // storage-relative path or external URL
	CoverPhoto string `json:"cover_photo"` // storage-relative path or external URL
	IsPrivate  bool   `json:"is_private" gorm:"default:false"`
}

// UpdateProfileRequest defines the request body for updating the caller's profile
type UpdateProfileRequest struct {
	Username   string `json:"username,omitempty" validate:"omitempty,min=3,max=50,alphanum"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar     string `json:"avatar,omitempty"`
	CoverPhoto string `json:"cover_photo,omitempty"`
	IsPrivate  *bool  `json:"is_private,omitempty"`
}
