package service

import (
	"context"
	"errors"
	"io"
	"time"

	"supportgenie/backend/internal/models"
	"supportgenie/backend/internal/repository"
	"supportgenie/backend/pkg/cache"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/resilience"
)

// testLogger returns a logger that discards output.
func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
}

func testBreaker() *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.DefaultConfig("test"), testLogger())
}

func testCache() *cache.Cache {
	return cache.New(time.Minute, 0, 10)
}

// fakeProvider returns a scripted reply, optionally failing or sleeping first.
type fakeProvider struct {
	reply string
	err   error
	delay time.Duration
	calls int
}

func (p *fakeProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	p.calls++
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

// fakeMessageRepo records created messages in memory.
type fakeMessageRepo struct {
	messages  []models.ChatMessage
	createErr error
	statsErr  error
	stats     []repository.SessionStats
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *models.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) GetBySession(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) SessionStats(ctx context.Context) ([]repository.SessionStats, error) {
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	return r.stats, nil
}

// fakeKnowledgeRepo stores documents keyed by filename, mirroring the
// store's upsert semantics.
type fakeKnowledgeRepo struct {
	docs      map[string]models.KnowledgeDocument
	listErr   error
	upsertErr error
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{docs: make(map[string]models.KnowledgeDocument)}
}

func (r *fakeKnowledgeRepo) List(ctx context.Context, limit int) ([]models.KnowledgeDocument, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.KnowledgeDocument
	for _, doc := range r.docs {
		out = append(out, doc)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeKnowledgeRepo) Upsert(ctx context.Context, doc *models.KnowledgeDocument) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if existing, ok := r.docs[doc.Filename]; ok {
		// The stored row keeps its id on conflict; report it back like the
		// real repository does.
		doc.ID = existing.ID
	}
	r.docs[doc.Filename] = *doc
	return nil
}

func (r *fakeKnowledgeRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	for filename, doc := range r.docs {
		if doc.ID == id {
			delete(r.docs, filename)
			return true, nil
		}
	}
	return false, nil
}

var errStoreDown = errors.New("store unavailable")
