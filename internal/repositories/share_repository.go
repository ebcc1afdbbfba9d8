package repositories

import (
	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// ShareRepository defines the interface for share data operations
type ShareRepository interface {
	CreateShare(share *models.Share) error
	DeleteShare(id uint) error
	GetShare(userID, postID uint, shareType string) (*models.Share, error)
	GetSharesByPostID(postID uint, page, limit int) ([]models.Share, int64, error)
	GetSharesByUserID(userID uint, page, limit int) ([]models.Share, int64, error)
	GetSharesCountByPostID(postID uint) (int64, error)
	GetSharesCountByPostIDAndType(postID uint, shareType string) (int64, error)
	HasUserSharedPost(userID, postID uint) (bool, error)
}

// PostgresShareRepository implements ShareRepository for PostgreSQL
type PostgresShareRepository struct {
	db *gorm.DB
}

// NewPostgresShareRepository creates a new PostgresShareRepository
func NewPostgresShareRepository(db *gorm.DB) *PostgresShareRepository {
	return &PostgresShareRepository{db: db}
}

// CreateShare creates a new share. The partial unique index rejects repeats
// for every share type except timeline.
func (r *PostgresShareRepository) CreateShare(share *models.Share) error {
	return r.db.Create(share).Error
}

// DeleteShare removes a share. Hard delete so the unique index frees the slot.
func (r *PostgresShareRepository) DeleteShare(id uint) error {
	return r.db.Unscoped().Delete(&models.Share{}, id).Error
}

// GetShare retrieves a user's share of a post with the given type
func (r *PostgresShareRepository) GetShare(userID, postID uint, shareType string) (*models.Share, error) {
	var share models.Share
	err := r.db.Where("user_id = ? AND post_id = ? AND share_type = ?", userID, postID, shareType).
		First(&share).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// GetSharesByPostID retrieves public shares of a post, newest first
func (r *PostgresShareRepository) GetSharesByPostID(postID uint, page, limit int) ([]models.Share, int64, error) {
	var shares []models.Share
	var total int64

	q := r.db.Model(&models.Share{}).Where("post_id = ? AND privacy = ?", postID, models.SharePrivacyPublic)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Preload("User.Profile").
		Where("post_id = ? AND privacy = ?", postID, models.SharePrivacyPublic).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&shares).Error
	return shares, total, err
}

// GetSharesByUserID retrieves a user's shares, newest first
func (r *PostgresShareRepository) GetSharesByUserID(userID uint, page, limit int) ([]models.Share, int64, error) {
	var shares []models.Share
	var total int64

	q := r.db.Model(&models.Share{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Preload("Post.User.Profile").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&shares).Error
	return shares, total, err
}

// GetSharesCountByPostID counts all shares of a post
func (r *PostgresShareRepository) GetSharesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Share{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetSharesCountByPostIDAndType counts shares of a post with a given type
func (r *PostgresShareRepository) GetSharesCountByPostIDAndType(postID uint, shareType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Share{}).
		Where("post_id = ? AND share_type = ?", postID, shareType).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserSharedPost checks whether a user has shared a post with any type
func (r *PostgresShareRepository) HasUserSharedPost(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Share{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
