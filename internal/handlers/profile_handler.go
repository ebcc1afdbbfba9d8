package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/services"
)

// ProfileHandler handles HTTP requests related to user profiles
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/:id/profile", h.GetUserProfile)
	g.GET("/profiles/:username", h.GetProfileByUsername)
	g.GET("/users/search", h.SearchUsers)
}

// GetOwnProfile retrieves the authenticated user's profile
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.GetOwn(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies partial changes to the authenticated user's profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profileService.Update(userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUserProfile retrieves another user's profile, subject to privacy
func (h *ProfileHandler) GetUserProfile(c echo.Context) error {
	viewerID, err := authedUserID(c)
	if err != nil {
		return err
	}
	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.profileService.GetVisible(targetID, viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfileByUsername resolves a profile by username, subject to privacy
func (h *ProfileHandler) GetProfileByUsername(c echo.Context) error {
	viewerID, err := authedUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.GetByUsername(c.Param("username"), viewerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// SearchUsers finds users by name or username
func (h *ProfileHandler) SearchUsers(c echo.Context) error {
	if _, err := authedUserID(c); err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	_, limit := pagination(c)
	users, err := h.profileService.SearchUsers(query, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
