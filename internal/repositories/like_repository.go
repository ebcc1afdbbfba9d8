package repositories

import (
	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations, covering
// both post likes and comment likes
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(id uint) error
	GetPostLike(postID, userID uint) (*models.Like, error)
	GetCommentLike(commentID, userID uint) (*models.Like, error)
	GetLikesByPostID(postID uint) ([]models.Like, error)
	GetLikesCountByPostID(postID uint) (int64, error)
	GetLikesCountByCommentID(commentID uint) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike deletes a like by ID
func (r *PostgresLikeRepository) DeleteLike(id uint) error {
	return r.db.Unscoped().Delete(&models.Like{}, id).Error
}

// GetPostLike retrieves a user's like on a post
func (r *PostgresLikeRepository) GetPostLike(postID, userID uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

// GetCommentLike retrieves a user's like on a comment
func (r *PostgresLikeRepository) GetCommentLike(commentID, userID uint) (*models.Like, error) {
	var like models.Like
	if err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

// GetLikesByPostID retrieves all likes for a specific post
func (r *PostgresLikeRepository) GetLikesByPostID(postID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Preload("User.Profile").Where("post_id = ?", postID).Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

// GetLikesCountByPostID counts likes on a post
func (r *PostgresLikeRepository) GetLikesCountByPostID(postID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetLikesCountByCommentID counts likes on a comment
func (r *PostgresLikeRepository) GetLikesCountByCommentID(commentID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
