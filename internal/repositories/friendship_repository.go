package repositories

import (
	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations.
// Pairs are stored in canonical (low, high) order, so every lookup is a
// single-row query with no direction juggling.
type FriendshipRepository interface {
	CreateFriendship(friendship *models.Friendship) error
	GetFriendshipByID(id uint) (*models.Friendship, error)
	GetFriendshipByPair(userA, userB uint) (*models.Friendship, error)
	UpdateFriendship(friendship *models.Friendship) error
	DeleteFriendship(id uint) error
	GetFriendsOf(userID uint) ([]models.User, error)
	GetPendingReceivedBy(userID uint) ([]models.Friendship, error)
	GetPendingSentBy(userID uint) ([]models.Friendship, error)
	GetSuggestionsFor(userID uint, limit int) ([]models.User, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// CreateFriendship inserts a friendship row. A concurrent insert for the
// same pair is rejected by the unique pair index.
func (r *PostgresFriendshipRepository) CreateFriendship(friendship *models.Friendship) error {
	return r.db.Create(friendship).Error
}

// GetFriendshipByID retrieves a friendship by ID
func (r *PostgresFriendshipRepository) GetFriendshipByID(id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.First(&friendship, id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipByPair retrieves the single row for an unordered user pair
func (r *PostgresFriendshipRepository) GetFriendshipByPair(userA, userB uint) (*models.Friendship, error) {
	low, high := models.CanonicalPair(userA, userB)
	var friendship models.Friendship
	err := r.db.Where("user_low_id = ? AND user_high_id = ?", low, high).First(&friendship).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// UpdateFriendship persists changes to an existing friendship
func (r *PostgresFriendshipRepository) UpdateFriendship(friendship *models.Friendship) error {
	return r.db.Save(friendship).Error
}

// DeleteFriendship removes a friendship. Hard delete so the pair index
// frees the slot for a future request.
func (r *PostgresFriendshipRepository) DeleteFriendship(id uint) error {
	return r.db.Unscoped().Delete(&models.Friendship{}, id).Error
}

// GetFriendsOf retrieves all users with an accepted friendship with userID
func (r *PostgresFriendshipRepository) GetFriendsOf(userID uint) ([]models.User, error) {
	var friendships []models.Friendship
	err := r.db.Where("(user_low_id = ? OR user_high_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	if len(friendships) == 0 {
		return []models.User{}, nil
	}

	friendIDs := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.OtherUser(userID))
	}

	var friends []models.User
	if err := r.db.Preload("Profile").Where("id IN ?", friendIDs).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// GetPendingReceivedBy retrieves pending requests where userID is the recipient
func (r *PostgresFriendshipRepository) GetPendingReceivedBy(userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.Where("(user_low_id = ? OR user_high_id = ?) AND status = ? AND requested_by <> ?",
		userID, userID, models.FriendshipPending, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	return friendships, nil
}

// GetPendingSentBy retrieves pending requests initiated by userID
func (r *PostgresFriendshipRepository) GetPendingSentBy(userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.Where("status = ? AND requested_by = ?", models.FriendshipPending, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	return friendships, nil
}

// GetSuggestionsFor retrieves users with no friendship row against userID
func (r *PostgresFriendshipRepository) GetSuggestionsFor(userID uint, limit int) ([]models.User, error) {
	var users []models.User
	sub := r.db.Model(&models.Friendship{}).
		Select("CASE WHEN user_low_id = ? THEN user_high_id ELSE user_low_id END", userID).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID)
	err := r.db.Preload("Profile").
		Where("id <> ? AND id NOT IN (?)", userID, sub).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
