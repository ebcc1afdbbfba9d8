package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeService *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.TogglePostLike)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
	g.GET("/posts/:id/likes", h.GetPostLikes)
}

// TogglePostLike toggles the caller's like on a post
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	liked, count, err := h.likeService.TogglePostLike(c.Request().Context(), postID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"liked":      liked,
		"like_count": count,
	})
}

// ToggleCommentLike toggles the caller's like on a comment
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	liked, count, err := h.likeService.ToggleCommentLike(c.Request().Context(), commentID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"liked":      liked,
		"like_count": count,
	})
}

// GetPostLikes retrieves a post's likes and the caller's like state
func (h *LikeHandler) GetPostLikes(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	likes, err := h.likeService.Likers(postID)
	if err != nil {
		return httpError(err)
	}
	liked, err := h.likeService.HasLikedPost(postID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"likes":      likes,
		"like_count": len(likes),
		"liked":      liked,
	})
}
