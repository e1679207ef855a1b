package models

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is an uploaded knowledge-base document whose content is
// injected into the model prompt. Filename is the upsert key: re-uploading
// the same filename replaces content, size and timestamp.
type KnowledgeDocument struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Filename    string    `json:"filename" gorm:"uniqueIndex;size:255;not null"`
	Content     string    `json:"content" gorm:"not null"`
	ContentType string    `json:"content_type" gorm:"size:128"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// NewKnowledgeDocument builds a document with a fresh id and UTC upload time.
func NewKnowledgeDocument(filename, content, contentType string, size int64) *KnowledgeDocument {
	return &KnowledgeDocument{
		ID:          uuid.New().String(),
		Filename:    filename,
		Content:     content,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedAt:  time.Now().UTC(),
	}
}
