package repository

import (
	"context"

	"supportgenie/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgeRepository interface {
	List(ctx context.Context, limit int) ([]models.KnowledgeDocument, error)
	// Upsert stores doc keyed by filename. After it returns, doc.ID is the
	// stored row's id even when the filename already existed.
	Upsert(ctx context.Context, doc *models.KnowledgeDocument) error
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type GormKnowledgeRepository struct {
	db *gorm.DB
}

func NewGormKnowledgeRepository(db *gorm.DB) *GormKnowledgeRepository {
	return &GormKnowledgeRepository{db: db}
}

func (r *GormKnowledgeRepository) List(ctx context.Context, limit int) ([]models.KnowledgeDocument, error) {
	var docs []models.KnowledgeDocument
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

// Upsert inserts the document or, when the filename already exists, replaces
// its content, type, size and upload time. The store never holds two
// documents with the same filename. On conflict the row keeps its original
// id, so the stored id is read back into doc: callers must end up holding
// the identity that Delete will find.
func (r *GormKnowledgeRepository) Upsert(ctx context.Context, doc *models.KnowledgeDocument) error {
	return r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "filename"}},
				DoUpdates: clause.AssignmentColumns([]string{"content", "content_type", "size_bytes", "uploaded_at"}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(doc).Error
}

func (r *GormKnowledgeRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.KnowledgeDocument{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
