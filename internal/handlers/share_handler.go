package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/services"
)

// ShareHandler handles HTTP requests related to post shares
type ShareHandler struct {
	shareService *services.ShareService
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// RegisterShareRoutes registers share-related routes
func (h *ShareHandler) RegisterShareRoutes(g *echo.Group) {
	g.POST("/posts/:id/share", h.SharePost)
	g.DELETE("/posts/:id/share", h.UnsharePost)
	g.GET("/posts/:id/shares", h.GetPostShares)
	g.GET("/posts/:id/shares/stats", h.GetShareStats)
	g.GET("/shares", h.GetOwnShares)
}

// SharePost handles sharing a post through a given channel type
func (h *ShareHandler) SharePost(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.SharePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	share, err := h.shareService.SharePost(c.Request().Context(), postID, userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, share)
}

// UnsharePost removes the caller's share of a given type
func (h *ShareHandler) UnsharePost(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.UnsharePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.shareService.Unshare(postID, userID, req.ShareType); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPostShares retrieves a post's public shares
func (h *ShareHandler) GetPostShares(c echo.Context) error {
	if _, err := authedUserID(c); err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	shares, total, err := h.shareService.SharesForPost(postID, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"shares": shares,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetShareStats retrieves per-type share counts for a post
func (h *ShareHandler) GetShareStats(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.shareService.Stats(postID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetOwnShares retrieves the caller's shares
func (h *ShareHandler) GetOwnShares(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	page, limit := pagination(c)
	shares, total, err := h.shareService.SharesForUser(userID, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"shares": shares,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}
