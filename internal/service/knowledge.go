package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"supportgenie/backend/internal/models"
	"supportgenie/backend/internal/repository"
	"supportgenie/backend/pkg/cache"
	"supportgenie/backend/pkg/errors"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/metrics"
)

const knowledgeContextCacheKey = "knowledge:context"

// pdfPlaceholder stands in for real PDF text extraction, which this
// service does not implement.
const pdfPlaceholder = "[PDF document: %s. Text extraction is not available; content stored as reference.]"

var allowedExtensions = map[string]string{
	".txt": "text/plain",
	".csv": "text/csv",
	".pdf": "application/pdf",
}

// KnowledgeService manages uploaded knowledge-base documents and assembles
// the bounded context text injected into the model prompt.
type KnowledgeService struct {
	repo           repository.KnowledgeRepository
	cache          *cache.Cache
	log            *logger.Logger
	docLimit       int
	maxUploadBytes int64
}

func NewKnowledgeService(repo repository.KnowledgeRepository, c *cache.Cache, log *logger.Logger, docLimit int, maxUploadBytes int64) *KnowledgeService {
	return &KnowledgeService{
		repo:           repo,
		cache:          c,
		log:            log,
		docLimit:       docLimit,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload validates and stores a knowledge document, replacing any existing
// document with the same filename. Validation failures surface as client
// errors; storage failures surface as server errors (unlike chat
// persistence, a lost upload must not look successful).
func (s *KnowledgeService) Upload(ctx context.Context, filename, contentType string, data []byte) (*models.KnowledgeDocument, error) {
	if len(data) == 0 {
		metrics.KnowledgeUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.NewBadRequestError("UPLOAD_EMPTY", "Uploaded file is empty")
	}
	if int64(len(data)) > s.maxUploadBytes {
		metrics.KnowledgeUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.NewRequestTooLargeError("UPLOAD_TOO_LARGE",
			fmt.Sprintf("Uploaded file exceeds the %d byte limit", s.maxUploadBytes))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	expectedType, ok := allowedExtensions[ext]
	if !ok {
		metrics.KnowledgeUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.NewUnsupportedMediaTypeError("UPLOAD_UNSUPPORTED_TYPE",
			"Only .txt, .csv and .pdf files are supported")
	}
	if contentType != "" && !strings.HasPrefix(contentType, expectedType) {
		metrics.KnowledgeUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.NewUnsupportedMediaTypeError("UPLOAD_TYPE_MISMATCH",
			fmt.Sprintf("Content type %q does not match the %s extension", contentType, ext))
	}

	var content string
	if ext == ".pdf" {
		content = fmt.Sprintf(pdfPlaceholder, filename)
	} else {
		if !utf8.Valid(data) {
			metrics.KnowledgeUploadsTotal.WithLabelValues("rejected").Inc()
			return nil, errors.NewBadRequestError("UPLOAD_INVALID_ENCODING",
				"Text uploads must be valid UTF-8")
		}
		content = string(data)
	}

	doc := models.NewKnowledgeDocument(filename, content, expectedType, int64(len(data)))
	if err := s.repo.Upsert(ctx, doc); err != nil {
		s.log.LogError(err, "Failed to store knowledge document", "filename", filename)
		metrics.KnowledgeUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, errors.NewInternalServerError("UPLOAD_FAILED", "Failed to store the uploaded document")
	}

	// New content invalidates the assembled prompt context.
	s.cache.Delete(knowledgeContextCacheKey)
	metrics.KnowledgeUploadsTotal.WithLabelValues("accepted").Inc()

	s.log.Info("Knowledge document stored",
		"filename", filename,
		"content_type", expectedType,
		"size_bytes", len(data),
	)
	return doc, nil
}

// List returns the stored documents, newest first.
func (s *KnowledgeService) List(ctx context.Context) ([]models.KnowledgeDocument, error) {
	docs, err := s.repo.List(ctx, s.docLimit)
	if err != nil {
		return nil, errors.NewInternalServerError("KNOWLEDGE_LIST_FAILED", "Failed to list knowledge documents")
	}
	return docs, nil
}

// Delete removes a document by id.
func (s *KnowledgeService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return errors.NewInternalServerError("KNOWLEDGE_DELETE_FAILED", "Failed to delete knowledge document")
	}
	if !deleted {
		return errors.NewNotFoundError("KNOWLEDGE_NOT_FOUND", "Knowledge base item not found")
	}
	s.cache.Delete(knowledgeContextCacheKey)
	return nil
}

// RetrieveContext fetches up to the configured cap of documents and
// concatenates them for prompt injection. Knowledge augmentation is
// best-effort: on storage failure it returns empty text rather than
// failing the turn.
func (s *KnowledgeService) RetrieveContext(ctx context.Context) string {
	if cached, found := s.cache.Get(knowledgeContextCacheKey); found {
		if text, ok := cached.(string); ok {
			return text
		}
	}

	docs, err := s.repo.List(ctx, s.docLimit)
	if err != nil {
		s.log.LogError(err, "Knowledge retrieval failed, continuing without context")
		return ""
	}

	sections := make([]string, 0, len(docs))
	for _, doc := range docs {
		sections = append(sections, fmt.Sprintf("Document: %s\n%s", doc.Filename, doc.Content))
	}
	text := strings.Join(sections, "\n\n")

	s.cache.Set(knowledgeContextCacheKey, text)
	return text
}
