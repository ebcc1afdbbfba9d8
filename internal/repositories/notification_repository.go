package repositories

import (
	"time"

	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationByID(id uint) (*models.Notification, error)
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(id uint, at time.Time) error
	MarkAsUnread(id uint) error
	MarkAllAsRead(recipientID uint, at time.Time) error
	DeleteNotification(id uint) error
	DeleteAllRead(recipientID uint) (int64, error)
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
	HasUnreadLikeSince(notifType string, recipientID, senderID uint, kind models.NotifiableKind, notifiableID uint, since time.Time) (bool, error)
	HasUnreadFromSender(notifType string, recipientID, senderID uint) (bool, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new notification repository
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.Preload("Sender.Profile").First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.Model(&models.Notification{}).Where("user_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Preload("Sender.Profile").
		Where("user_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(id uint, at time.Time) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]any{"read": true, "read_at": at}).Error
}

func (r *postgresNotificationRepository) MarkAsUnread(id uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]any{"read": false, "read_at": nil}).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint, at time.Time) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", recipientID, false).
		Updates(map[string]any{"read": true, "read_at": at}).Error
}

func (r *postgresNotificationRepository) DeleteNotification(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

func (r *postgresNotificationRepository) DeleteAllRead(recipientID uint) (int64, error) {
	res := r.db.Where("user_id = ? AND read = ?", recipientID, true).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// DeleteReadOlderThan purges read notifications whose read_at predates cutoff
func (r *postgresNotificationRepository) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("read = ? AND read_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// HasUnreadLikeSince reports an unread notification with the same type,
// sender, recipient, and target created after the given instant. Backs the
// 24h like-spam suppression window.
func (r *postgresNotificationRepository) HasUnreadLikeSince(notifType string, recipientID, senderID uint, kind models.NotifiableKind, notifiableID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("type = ? AND user_id = ? AND sender_id = ? AND notifiable_kind = ? AND notifiable_id = ? AND read = ? AND created_at > ?",
			notifType, recipientID, senderID, kind, notifiableID, false, since).
		Count(&count).Error
	return count > 0, err
}

// HasUnreadFromSender reports any unread notification of the given type from
// sender to recipient, with no time bound. Backs friend-request dedup.
func (r *postgresNotificationRepository) HasUnreadFromSender(notifType string, recipientID, senderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("type = ? AND user_id = ? AND sender_id = ? AND read = ?",
			notifType, recipientID, senderID, false).
		Count(&count).Error
	return count > 0, err
}
