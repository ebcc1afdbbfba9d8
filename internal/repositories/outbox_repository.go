package repositories

import (
	"time"

	"github.com/wavely-app/backend/internal/models"
	"gorm.io/gorm"
)

// OutboxRepository defines the interface for broadcast outbox rows
type OutboxRepository interface {
	CreateEvent(event *models.OutboxEvent) error
	GetUnpublished(limit int) ([]models.OutboxEvent, error)
	MarkPublished(id string, at time.Time) error
}

// PostgresOutboxRepository implements OutboxRepository for PostgreSQL
type PostgresOutboxRepository struct {
	db *gorm.DB
}

// NewPostgresOutboxRepository creates a new PostgresOutboxRepository
func NewPostgresOutboxRepository(db *gorm.DB) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{db: db}
}

// CreateEvent records an event awaiting publication
func (r *PostgresOutboxRepository) CreateEvent(event *models.OutboxEvent) error {
	return r.db.Create(event).Error
}

// GetUnpublished retrieves pending events oldest first
func (r *PostgresOutboxRepository) GetUnpublished(limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := r.db.Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// MarkPublished stamps an event as delivered
func (r *PostgresOutboxRepository) MarkPublished(id string, at time.Time) error {
	return r.db.Model(&models.OutboxEvent{}).Where("id = ?", id).
		Update("published_at", at).Error
}
