package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/services"
)

// ConversationHandler handles HTTP requests for conversations and messages
type ConversationHandler struct {
	conversationService *services.ConversationService
	messageService      *services.MessageService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationService *services.ConversationService, messageService *services.MessageService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		messageService:      messageService,
	}
}

// RegisterConversationRoutes registers conversation and message routes
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.GET("/conversations", h.ListConversations)
	g.POST("/conversations/private", h.StartPrivateConversation)
	g.POST("/conversations/group", h.CreateGroupConversation)
	g.GET("/conversations/:id", h.GetConversation)
	g.GET("/conversations/:id/members", h.GetConversationMembers)
	g.POST("/conversations/:id/read", h.MarkConversationRead)
	g.POST("/conversations/:id/mute", h.MuteConversation)
	g.DELETE("/conversations/:id/mute", h.UnmuteConversation)
	g.POST("/conversations/:id/members", h.AddGroupMembers)
	g.DELETE("/conversations/:id/members/:userId", h.RemoveGroupMember)
	g.POST("/conversations/:id/leave", h.LeaveConversation)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.PUT("/messages/:id", h.EditMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// ListConversations retrieves the caller's conversations with unread counts
func (h *ConversationHandler) ListConversations(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	summaries, err := h.conversationService.ListForUser(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// StartPrivateConversationRequest defines the request body for opening a
// private conversation
type StartPrivateConversationRequest struct {
	UserID uint `json:"user_id" validate:"required,min=1"`
}

// StartPrivateConversation opens or returns the existing private conversation
// with another user
func (h *ConversationHandler) StartPrivateConversation(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	var req StartPrivateConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conversation, created, err := h.conversationService.StartPrivate(userID, req.UserID)
	if err != nil {
		return httpError(err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, conversation)
}

// CreateGroupConversation creates a group conversation
func (h *ConversationHandler) CreateGroupConversation(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conversation, err := h.conversationService.CreateGroup(userID, req.Name, req.Avatar, req.UserIDs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, conversation)
}

// GetConversation retrieves a single conversation the caller belongs to
func (h *ConversationHandler) GetConversation(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	conversation, err := h.conversationService.Get(conversationID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// GetConversationMembers lists a conversation's members
func (h *ConversationHandler) GetConversationMembers(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	members, err := h.conversationService.Members(conversationID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// MarkConversationRead advances the caller's read watermark to now
func (h *ConversationHandler) MarkConversationRead(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.conversationService.MarkAsRead(conversationID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MuteConversation mutes a conversation for the caller
func (h *ConversationHandler) MuteConversation(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.conversationService.Mute(conversationID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnmuteConversation unmutes a conversation for the caller
func (h *ConversationHandler) UnmuteConversation(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.conversationService.Unmute(conversationID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddGroupMembers adds users to a group conversation
func (h *ConversationHandler) AddGroupMembers(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.GroupMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.conversationService.AddMembers(conversationID, userID, req.UserIDs); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveGroupMember removes a user from a group conversation
func (h *ConversationHandler) RemoveGroupMember(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	if err := h.conversationService.RemoveMember(conversationID, userID, targetID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LeaveConversation removes the caller from a group conversation
func (h *ConversationHandler) LeaveConversation(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.conversationService.Leave(conversationID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMessages retrieves a conversation's messages and advances the caller's
// read watermark
func (h *ConversationHandler) GetMessages(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	messages, total, err := h.messageService.ListMessages(conversationID, userID, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"messages": messages,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// SendMessage sends a message into a conversation
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	conversationID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.messageService.Send(c.Request().Context(), conversationID, userID, req.Content, req.Type, req.Media)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, message)
}

// EditMessage edits a message the caller sent
func (h *ConversationHandler) EditMessage(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	messageID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.EditMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.messageService.Edit(c.Request().Context(), messageID, userID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, message)
}

// DeleteMessage deletes a message the caller sent
func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	messageID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.messageService.Delete(messageID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
