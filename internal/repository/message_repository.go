package repository

import (
	"context"

	"supportgenie/backend/internal/models"

	"gorm.io/gorm"
)

// SessionStats is the per-session aggregate used by analytics: whether the
// session was ever escalated and the mean of its recorded response times.
type SessionStats struct {
	SessionID       string
	MessageCount    int
	Escalated       bool
	AvgResponseTime *float64
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	GetBySession(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
	SessionStats(ctx context.Context) ([]SessionStats, error)
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *GormMessageRepository) GetBySession(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *GormMessageRepository) SessionStats(ctx context.Context) ([]SessionStats, error) {
	var stats []SessionStats
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Select("session_id, count(*) as message_count, bool_or(escalated) as escalated, avg(response_time) as avg_response_time").
		Group("session_id").
		Scan(&stats).Error
	return stats, err
}
