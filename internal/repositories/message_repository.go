package repositories

import (
	"time"

	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	UpdateMessage(message *models.Message) error
	DeleteMessage(id uint) error
	GetMessagesByConversationID(conversationID uint, page, limit int) ([]models.Message, int64, error)
	GetLastMessage(conversationID uint) (*models.Message, error)
	CountMessages(conversationID uint) (int64, error)
	CountMessagesAfter(conversationID uint, after time.Time) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage creates a new message
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessageByID retrieves a message by ID
func (r *PostgresMessageRepository) GetMessageByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// UpdateMessage persists changes to an existing message
func (r *PostgresMessageRepository) UpdateMessage(message *models.Message) error {
	return r.db.Save(message).Error
}

// DeleteMessage deletes a message
func (r *PostgresMessageRepository) DeleteMessage(id uint) error {
	return r.db.Delete(&models.Message{}, id).Error
}

// GetMessagesByConversationID retrieves messages oldest first
func (r *PostgresMessageRepository) GetMessagesByConversationID(conversationID uint, page, limit int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	q := r.db.Model(&models.Message{}).Where("conversation_id = ?", conversationID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Preload("User.Profile").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// GetLastMessage retrieves the most recent message of a conversation
func (r *PostgresMessageRepository) GetLastMessage(conversationID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("User.Profile").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// CountMessages counts all messages in a conversation
func (r *PostgresMessageRepository) CountMessages(conversationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}

// CountMessagesAfter counts messages strictly newer than the given time
func (r *PostgresMessageRepository) CountMessagesAfter(conversationID uint, after time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND created_at > ?", conversationID, after).
		Count(&count).Error
	return count, err
}
