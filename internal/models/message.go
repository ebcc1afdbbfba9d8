package models

import "gorm.io/gorm"

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeAudio = "audio"
	MessageTypeFile  = "file"
)

// Message belongs to a conversation. Sending one touches the conversation's
// updated_at and advances the sender's read watermark.
type Message struct {
	gorm.Model
	ConversationID uint     `json:"conversation_id" gorm:"index"`
	UserID         uint     `json:"user_id" gorm:"index"`
	Content        string   `json:"content"`
	Type           string   `json:"type" gorm:"type:varchar(20);default:'text'"`
	Media          []string `json:"media,omitempty" gorm:"serializer:json"`
	IsEdited       bool     `json:"is_edited" gorm:"default:false"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Content string   `json:"content" validate:"required,min=1,max=5000"`
	Type    string   `json:"type,omitempty" validate:"omitempty,oneof=text image video audio file"`
	Media   []string `json:"media,omitempty"`
}

// EditMessageRequest defines the request body for editing a message
type EditMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
