package repositories

import (
	"time"

	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for conversation and
// membership data operations
type ConversationRepository interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversationByID(id uint) (*models.Conversation, error)
	TouchConversation(id uint) error
	AddMember(member *models.ConversationMember) error
	GetMember(conversationID, userID uint) (*models.ConversationMember, error)
	GetMembers(conversationID uint) ([]models.ConversationMember, error)
	RemoveMember(conversationID, userID uint) error
	SetLastReadAt(conversationID, userID uint, at time.Time) error
	SetMuted(conversationID, userID uint, muted bool) error
	FindPrivateConversation(userA, userB uint) (*models.Conversation, error)
	GetConversationsForUser(userID uint) ([]models.Conversation, error)
}

// PostgresConversationRepository implements ConversationRepository for PostgreSQL
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// CreateConversation creates a new conversation
func (r *PostgresConversationRepository) CreateConversation(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

// GetConversationByID retrieves a conversation with its members
func (r *PostgresConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.Preload("Members.User.Profile").First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// TouchConversation bumps the conversation's updated_at
func (r *PostgresConversationRepository) TouchConversation(id uint) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// AddMember adds a user to a conversation
func (r *PostgresConversationRepository) AddMember(member *models.ConversationMember) error {
	return r.db.Create(member).Error
}

// GetMember retrieves one membership row
func (r *PostgresConversationRepository) GetMember(conversationID, userID uint) (*models.ConversationMember, error) {
	var member models.ConversationMember
	err := r.db.Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetMembers retrieves all memberships of a conversation
func (r *PostgresConversationRepository) GetMembers(conversationID uint) ([]models.ConversationMember, error) {
	var members []models.ConversationMember
	err := r.db.Preload("User.Profile").
		Where("conversation_id = ?", conversationID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMember detaches a user from a conversation. Hard delete so the
// membership index frees the slot if they are re-added.
func (r *PostgresConversationRepository) RemoveMember(conversationID, userID uint) error {
	return r.db.Unscoped().
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Delete(&models.ConversationMember{}).Error
}

// SetLastReadAt moves the member's read watermark
func (r *PostgresConversationRepository) SetLastReadAt(conversationID, userID uint, at time.Time) error {
	return r.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("last_read_at", at).Error
}

// SetMuted flips the member's mute flag
func (r *PostgresConversationRepository) SetMuted(conversationID, userID uint, muted bool) error {
	return r.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("is_muted", muted).Error
}

// FindPrivateConversation looks up the existing private conversation shared
// by two users, keyed by type plus both memberships
func (r *PostgresConversationRepository) FindPrivateConversation(userA, userB uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.
		Joins("JOIN conversation_members m1 ON m1.conversation_id = conversations.id AND m1.user_id = ? AND m1.deleted_at IS NULL", userA).
		Joins("JOIN conversation_members m2 ON m2.conversation_id = conversations.id AND m2.user_id = ? AND m2.deleted_at IS NULL", userB).
		Where("conversations.type = ?", models.ConversationPrivate).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationsForUser retrieves a user's conversations, most recently
// active first
func (r *PostgresConversationRepository) GetConversationsForUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Members.User.Profile").
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id AND cm.user_id = ? AND cm.deleted_at IS NULL", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}
