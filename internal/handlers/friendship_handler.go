package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/services"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipService *services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipService *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.PUT("/friends/request/:id", h.RespondToFriendRequest)
	g.GET("/friends", h.GetFriends)
	g.GET("/friends/requests/pending", h.GetPendingRequests)
	g.GET("/friends/requests/sent", h.GetSentRequests)
	g.GET("/friends/suggestions", h.GetSuggestions)
	g.GET("/friends/status/:id", h.GetFriendshipStatus)
	g.DELETE("/friends/:id", h.RemoveFriend)
	g.POST("/users/:id/block", h.BlockUser)
	g.DELETE("/users/:id/block", h.UnblockUser)
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friendship, err := h.friendshipService.SendRequest(c.Request().Context(), userID, req.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, friendship)
}

// RespondToFriendRequest accepts, rejects, or blocks a pending request
func (h *FriendshipHandler) RespondToFriendRequest(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	friendshipID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.RespondFriendshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friendship, err := h.friendshipService.Respond(c.Request().Context(), friendshipID, userID, req.Action)
	if err != nil {
		return httpError(err)
	}
	if friendship == nil {
		// Rejection deletes the row.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, friendship)
}

// GetFriends retrieves the authenticated user's friends
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	friends, err := h.friendshipService.Friends(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, friends)
}

// GetPendingRequests retrieves friend requests awaiting the caller's answer
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	requests, err := h.friendshipService.PendingReceived(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// GetSentRequests retrieves friend requests the caller has sent
func (h *FriendshipHandler) GetSentRequests(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	requests, err := h.friendshipService.PendingSent(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// GetSuggestions retrieves friend suggestions for the caller
func (h *FriendshipHandler) GetSuggestions(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	_, limit := pagination(c)
	suggestions, err := h.friendshipService.Suggestions(userID, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, suggestions)
}

// GetFriendshipStatus reports the relationship between the caller and another user
func (h *FriendshipHandler) GetFriendshipStatus(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	otherID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	status, friendshipID, err := h.friendshipService.Status(userID, otherID)
	if err != nil {
		return httpError(err)
	}
	resp := echo.Map{"status": status}
	if friendshipID != 0 {
		resp["friendship_id"] = friendshipID
	}
	return c.JSON(http.StatusOK, resp)
}

// RemoveFriend handles unfriending
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	friendshipID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendshipService.Remove(friendshipID, userID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BlockUser blocks another user
func (h *FriendshipHandler) BlockUser(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	friendship, err := h.friendshipService.Block(c.Request().Context(), userID, targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, friendship)
}

// UnblockUser lifts a block the caller placed
func (h *FriendshipHandler) UnblockUser(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendshipService.Unblock(userID, targetID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
