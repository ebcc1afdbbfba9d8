package services

import (
	"context"
	"time"

	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// MessageService sends and mutates messages. Sending touches the
// conversation's updated_at and advances the sender's read watermark before
// the broadcast goes out on the conversation channel.
type MessageService struct {
	messages      repositories.MessageRepository
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
	dispatcher    *broadcast.Dispatcher
}

// NewMessageService creates a new MessageService
func NewMessageService(messages repositories.MessageRepository, conversations repositories.ConversationRepository, users repositories.UserRepository, dispatcher *broadcast.Dispatcher) *MessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		users:         users,
		dispatcher:    dispatcher,
	}
}

// Send creates a message in a conversation the sender belongs to
func (s *MessageService) Send(ctx context.Context, conversationID, senderID uint, content, msgType string, media []string) (*models.Message, error) {
	if _, err := s.conversations.GetMember(conversationID, senderID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.Unauthorized("you are not a member of this conversation")
		}
		return nil, err
	}

	if msgType == "" {
		msgType = models.MessageTypeText
	}

	message := &models.Message{
		ConversationID: conversationID,
		UserID:         senderID,
		Content:        content,
		Type:           msgType,
		Media:          media,
	}
	if err := s.messages.CreateMessage(message); err != nil {
		return nil, err
	}

	if err := s.conversations.TouchConversation(conversationID); err != nil {
		return nil, err
	}
	// The sender has obviously seen their own message.
	if err := s.conversations.SetLastReadAt(conversationID, senderID, time.Now()); err != nil {
		return nil, err
	}

	s.broadcastMessage(ctx, message, broadcast.EventMessageNew)
	return message, nil
}

// ListMessages returns a page of a conversation's messages oldest first and
// moves the caller's read watermark.
func (s *MessageService) ListMessages(conversationID, userID uint, page, limit int) ([]models.Message, int64, error) {
	if _, err := s.conversations.GetMember(conversationID, userID); err != nil {
		if repositories.IsNotFound(err) {
			return nil, 0, apperrors.Unauthorized("you are not a member of this conversation")
		}
		return nil, 0, err
	}

	messages, total, err := s.messages.GetMessagesByConversationID(conversationID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.conversations.SetLastReadAt(conversationID, userID, time.Now()); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// Edit updates a message's content. Owner only; marks the edit.
func (s *MessageService) Edit(ctx context.Context, messageID, userID uint, content string) (*models.Message, error) {
	message, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("message not found")
		}
		return nil, err
	}
	if message.UserID != userID {
		return nil, apperrors.Unauthorized("you can only edit your own messages")
	}

	message.Content = content
	message.IsEdited = true
	if err := s.messages.UpdateMessage(message); err != nil {
		return nil, err
	}

	s.broadcastMessage(ctx, message, broadcast.EventMessageUpdated)
	return message, nil
}

// Delete removes a message. Owner only.
func (s *MessageService) Delete(messageID, userID uint) error {
	message, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("message not found")
		}
		return err
	}
	if message.UserID != userID {
		return apperrors.Unauthorized("you can only delete your own messages")
	}
	return s.messages.DeleteMessage(messageID)
}

func (s *MessageService) broadcastMessage(ctx context.Context, message *models.Message, event string) {
	sender, err := s.users.GetUserByID(message.UserID)
	if err != nil {
		sender = &models.User{ID: message.UserID}
	}
	payload := broadcast.MessagePayload{
		MessageID:      message.ID,
		ConversationID: message.ConversationID,
		Sender:         userRef(sender),
		Content:        message.Content,
		Type:           message.Type,
		Media:          message.Media,
		IsEdited:       message.IsEdited,
		CreatedAt:      message.CreatedAt,
	}
	s.dispatcher.Dispatch(ctx, event, payload, broadcast.ConversationChannel(message.ConversationID))
}
