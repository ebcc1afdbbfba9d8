package services

import (
	"time"

	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// ConversationService manages conversations, memberships, and the per-user
// read watermark. Unread counts are always recomputed from the watermark,
// never maintained incrementally.
type ConversationService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
}

// NewConversationService creates a new ConversationService
func NewConversationService(conversations repositories.ConversationRepository, messages repositories.MessageRepository) *ConversationService {
	return &ConversationService{conversations: conversations, messages: messages}
}

// StartPrivate returns the existing private conversation between the two
// users, or creates one. Starting twice always yields the same conversation.
func (s *ConversationService) StartPrivate(initiatorID, otherID uint) (*models.Conversation, bool, error) {
	if initiatorID == otherID {
		return nil, false, apperrors.SelfAction("you cannot start a conversation with yourself")
	}

	existing, err := s.conversations.FindPrivateConversation(initiatorID, otherID)
	if err == nil {
		return existing, false, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, false, err
	}

	conversation := &models.Conversation{Type: models.ConversationPrivate}
	if err := s.conversations.CreateConversation(conversation); err != nil {
		return nil, false, err
	}

	now := time.Now()
	for _, userID := range []uint{initiatorID, otherID} {
		member := &models.ConversationMember{
			ConversationID: conversation.ID,
			UserID:         userID,
			LastReadAt:     &now,
		}
		if err := s.conversations.AddMember(member); err != nil {
			return nil, false, err
		}
	}
	return conversation, true, nil
}

// CreateGroup creates a group conversation with the creator plus the given
// members.
func (s *ConversationService) CreateGroup(creatorID uint, name, avatar string, userIDs []uint) (*models.Conversation, error) {
	memberIDs := map[uint]bool{creatorID: true}
	for _, id := range userIDs {
		memberIDs[id] = true
	}
	if len(memberIDs) < 3 {
		return nil, apperrors.Validation("a group needs at least three members")
	}

	conversation := &models.Conversation{
		Type:   models.ConversationGroup,
		Name:   name,
		Avatar: avatar,
	}
	if err := s.conversations.CreateConversation(conversation); err != nil {
		return nil, err
	}

	now := time.Now()
	for userID := range memberIDs {
		member := &models.ConversationMember{
			ConversationID: conversation.ID,
			UserID:         userID,
			LastReadAt:     &now,
		}
		if err := s.conversations.AddMember(member); err != nil {
			return nil, err
		}
	}
	return conversation, nil
}

// Get returns a conversation the caller is a member of
func (s *ConversationService) Get(conversationID, userID uint) (*models.Conversation, error) {
	if _, err := s.requireMember(conversationID, userID); err != nil {
		return nil, err
	}
	return s.conversations.GetConversationByID(conversationID)
}

// ListForUser returns the caller's conversations ordered by recent
// activity, each with its unread count and latest message.
func (s *ConversationService) ListForUser(userID uint) ([]models.ConversationSummary, error) {
	conversations, err := s.conversations.GetConversationsForUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		conv := conversations[i]
		unread, err := s.UnreadCount(conv.ID, userID)
		if err != nil {
			return nil, err
		}
		summary := models.ConversationSummary{Conversation: conv, UnreadCount: unread}
		if member, err := s.conversations.GetMember(conv.ID, userID); err == nil {
			summary.IsMuted = member.IsMuted
		}
		if last, err := s.messages.GetLastMessage(conv.ID); err == nil {
			summary.LastMessage = last
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UnreadCount counts messages newer than the user's watermark, or every
// message when the watermark is nil (never read).
func (s *ConversationService) UnreadCount(conversationID, userID uint) (int64, error) {
	member, err := s.conversations.GetMember(conversationID, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return s.messages.CountMessages(conversationID)
		}
		return 0, err
	}
	if member.LastReadAt == nil {
		return s.messages.CountMessages(conversationID)
	}
	return s.messages.CountMessagesAfter(conversationID, *member.LastReadAt)
}

// MarkAsRead moves the caller's watermark to now, zeroing the unread count
func (s *ConversationService) MarkAsRead(conversationID, userID uint) error {
	if _, err := s.requireMember(conversationID, userID); err != nil {
		return err
	}
	return s.conversations.SetLastReadAt(conversationID, userID, time.Now())
}

// Mute silences notifications for the caller's membership
func (s *ConversationService) Mute(conversationID, userID uint) error {
	if _, err := s.requireMember(conversationID, userID); err != nil {
		return err
	}
	return s.conversations.SetMuted(conversationID, userID, true)
}

// Unmute re-enables notifications for the caller's membership
func (s *ConversationService) Unmute(conversationID, userID uint) error {
	if _, err := s.requireMember(conversationID, userID); err != nil {
		return err
	}
	return s.conversations.SetMuted(conversationID, userID, false)
}

// AddMembers adds users to a group conversation. Members only; groups only.
func (s *ConversationService) AddMembers(conversationID, actorID uint, userIDs []uint) error {
	conversation, err := s.requireGroup(conversationID)
	if err != nil {
		return err
	}
	if _, err := s.requireMember(conversation.ID, actorID); err != nil {
		return err
	}

	now := time.Now()
	for _, userID := range userIDs {
		if _, err := s.conversations.GetMember(conversationID, userID); err == nil {
			continue // already a member
		}
		member := &models.ConversationMember{
			ConversationID: conversationID,
			UserID:         userID,
			LastReadAt:     &now,
		}
		if err := s.conversations.AddMember(member); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMember removes a user from a group conversation
func (s *ConversationService) RemoveMember(conversationID, actorID, targetID uint) error {
	conversation, err := s.requireGroup(conversationID)
	if err != nil {
		return err
	}
	if _, err := s.requireMember(conversation.ID, actorID); err != nil {
		return err
	}
	return s.conversations.RemoveMember(conversationID, targetID)
}

// Leave removes the caller from a group conversation
func (s *ConversationService) Leave(conversationID, userID uint) error {
	if _, err := s.requireGroup(conversationID); err != nil {
		return err
	}
	if _, err := s.requireMember(conversationID, userID); err != nil {
		return err
	}
	return s.conversations.RemoveMember(conversationID, userID)
}

// Members lists a conversation's memberships with their users. Members only.
func (s *ConversationService) Members(conversationID, userID uint) ([]models.ConversationMember, error) {
	if _, err := s.requireMember(conversationID, userID); err != nil {
		return nil, err
	}
	return s.conversations.GetMembers(conversationID)
}

// IsMember reports whether userID belongs to the conversation
func (s *ConversationService) IsMember(conversationID, userID uint) (bool, error) {
	_, err := s.conversations.GetMember(conversationID, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ConversationService) requireMember(conversationID, userID uint) (*models.ConversationMember, error) {
	member, err := s.conversations.GetMember(conversationID, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.Unauthorized("you are not a member of this conversation")
		}
		return nil, err
	}
	return member, nil
}

func (s *ConversationService) requireGroup(conversationID uint) (*models.Conversation, error) {
	conversation, err := s.conversations.GetConversationByID(conversationID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("conversation not found")
		}
		return nil, err
	}
	if !conversation.IsGroup() {
		return nil, apperrors.New(apperrors.CodeFailedPrecondition, "this is not a group conversation")
	}
	return conversation, nil
}
