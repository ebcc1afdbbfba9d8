package services

import (
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/pkg/apperrors"
)

// ProfileService manages user profiles and their visibility rules. A private
// profile is only readable by its owner and accepted friends.
type ProfileService struct {
	profiles    repositories.ProfileRepository
	users       repositories.UserRepository
	friendships *FriendshipService
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repositories.ProfileRepository, users repositories.UserRepository, friendships *FriendshipService) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		users:       users,
		friendships: friendships,
	}
}

// GetOwn retrieves the caller's own profile
func (s *ProfileService) GetOwn(userID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("profile not found")
		}
		return nil, err
	}
	return profile, nil
}

// GetVisible retrieves another user's profile, enforcing privacy. A private
// profile reads as not found unless the viewer is the owner or a friend.
func (s *ProfileService) GetVisible(userID, viewerID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUserID(userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("profile not found")
		}
		return nil, err
	}
	if profile.IsPrivate && userID != viewerID {
		friends, err := s.friendships.AreFriends(userID, viewerID)
		if err != nil {
			return nil, err
		}
		if !friends {
			return nil, apperrors.NotFound("profile not found")
		}
	}
	return profile, nil
}

// GetByUsername resolves a profile by its unique username, enforcing the same
// privacy rule as GetVisible.
func (s *ProfileService) GetByUsername(username string, viewerID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByUsername(username)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("profile not found")
		}
		return nil, err
	}
	return s.GetVisible(profile.UserID, viewerID)
}

// Update applies partial changes to the caller's profile. A username change
// is rejected when the name is already taken.
func (s *ProfileService) Update(userID uint, req models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetOwn(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != profile.Username {
		if existing, err := s.profiles.GetProfileByUsername(req.Username); err == nil && existing.UserID != userID {
			return nil, apperrors.Duplicate("username is already taken")
		} else if err != nil && !repositories.IsNotFound(err) {
			return nil, err
		}
		profile.Username = req.Username
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.Avatar != "" {
		profile.Avatar = req.Avatar
	}
	if req.CoverPhoto != "" {
		profile.CoverPhoto = req.CoverPhoto
	}
	if req.IsPrivate != nil {
		profile.IsPrivate = *req.IsPrivate
	}

	if err := s.profiles.UpdateProfile(profile); err != nil {
		if repositories.IsConflict(err) {
			return nil, apperrors.Duplicate("username is already taken")
		}
		return nil, err
	}
	return profile, nil
}

// SearchUsers finds users whose name or username matches the query
func (s *ProfileService) SearchUsers(query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.users.SearchUsers(query, limit)
}
