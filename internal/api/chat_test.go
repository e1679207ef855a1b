package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"supportgenie/backend/internal/models"
	"supportgenie/backend/internal/repository"
	"supportgenie/backend/internal/service"
	"supportgenie/backend/pkg/cache"
	"supportgenie/backend/pkg/errors"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/resilience"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type stubMessageRepo struct {
	messages []models.ChatMessage
}

func (r *stubMessageRepo) Create(ctx context.Context, message *models.ChatMessage) error {
	r.messages = append(r.messages, *message)
	return nil
}

func (r *stubMessageRepo) GetBySession(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
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

func (r *stubMessageRepo) SessionStats(ctx context.Context) ([]repository.SessionStats, error) {
	return nil, nil
}

type stubKnowledgeRepo struct {
	docs map[string]models.KnowledgeDocument
}

func (r *stubKnowledgeRepo) List(ctx context.Context, limit int) ([]models.KnowledgeDocument, error) {
	var out []models.KnowledgeDocument
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (r *stubKnowledgeRepo) Upsert(ctx context.Context, doc *models.KnowledgeDocument) error {
	if existing, ok := r.docs[doc.Filename]; ok {
		doc.ID = existing.ID
	}
	r.docs[doc.Filename] = *doc
	return nil
}

func (r *stubKnowledgeRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	for filename, doc := range r.docs {
		if doc.ID == id {
			delete(r.docs, filename)
			return true, nil
		}
	}
	return false, nil
}

func newTestRouter(t *testing.T, provider *stubProvider) (*gin.Engine, *stubMessageRepo, *stubKnowledgeRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error", JSON: true, Output: io.Discard})
	messageRepo := &stubMessageRepo{}
	knowledgeRepo := &stubKnowledgeRepo{docs: make(map[string]models.KnowledgeDocument)}

	knowledgeService := service.NewKnowledgeService(knowledgeRepo, cache.New(time.Minute, 0, 10), log, 50, 5<<20)
	breaker := resilience.NewCircuitBreaker(resilience.DefaultConfig("test"), log)
	generator := service.NewResponseGenerator(provider, knowledgeService, breaker, log, 2000)
	chatService := service.NewChatService(messageRepo, generator, log, time.Second, 100, 128)
	analyticsService := service.NewAnalyticsService(messageRepo, nil, log, 30*time.Second)

	engine := gin.New()
	engine.Use(logger.Middleware(log))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	v1 := engine.Group("/api/v1")
	NewChatController(chatService).RegisterRoutesV1(v1)
	NewKnowledgeController(knowledgeService).RegisterRoutesV1(v1)
	NewAnalyticsController(analyticsService).RegisterRoutesV1(v1)

	return engine, messageRepo, knowledgeRepo
}

func performJSON(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestChatEndpointReturnsReply(t *testing.T) {
	engine, repo, _ := newTestRouter(t, &stubProvider{reply: "Happy to help!"})

	rec := performJSON(engine, http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "Where is my order?",
		SessionID: "s1",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Happy to help!", resp.Message)
	assert.False(t, resp.Escalated)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Len(t, repo.messages, 2)
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	engine, repo, _ := newTestRouter(t, &stubProvider{reply: "unused"})

	rec := performJSON(engine, http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "",
		SessionID: "s1",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))
	assert.Empty(t, repo.messages)
}

func TestChatEndpointRejectsMalformedBody(t *testing.T) {
	engine, _, _ := newTestRouter(t, &stubProvider{reply: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))
}

func TestHistoryEndpointReturnsSessionMessages(t *testing.T) {
	engine, _, _ := newTestRouter(t, &stubProvider{reply: "Sure thing."})

	rec := performJSON(engine, http.MethodPost, "/api/v1/chat", models.ChatRequest{
		Message:   "hello",
		SessionID: "s1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performJSON(engine, http.MethodGet, "/api/v1/chat/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SessionID string               `json:"session_id"`
		Messages  []models.ChatMessage `json:"messages"`
		Count     int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "s1", body.SessionID)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, models.SenderUser, body.Messages[0].Sender)
	assert.Equal(t, models.SenderAI, body.Messages[1].Sender)
}

func performUpload(engine *gin.Engine, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, _ := writer.CreatePart(header)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/knowledge-base/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestKnowledgeUploadAndList(t *testing.T) {
	engine, _, knowledgeRepo := newTestRouter(t, &stubProvider{reply: "unused"})

	rec := performUpload(engine, "faq.txt", "text/plain", []byte("Returns accepted within 30 days."))
	require.Equal(t, http.StatusOK, rec.Code)

	var uploadBody struct {
		Filename string `json:"filename"`
		ID       string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploadBody))
	assert.Equal(t, "faq.txt", uploadBody.Filename)
	assert.NotEmpty(t, uploadBody.ID)
	assert.Len(t, knowledgeRepo.docs, 1)

	rec = performJSON(engine, http.MethodGet, "/api/v1/knowledge-base", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []models.KnowledgeDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "faq.txt", docs[0].Filename)
}

func TestKnowledgeUploadRejectsUnsupportedType(t *testing.T) {
	engine, _, knowledgeRepo := newTestRouter(t, &stubProvider{reply: "unused"})

	rec := performUpload(engine, "notes.docx", "application/octet-stream", []byte("hello"))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UPLOAD_UNSUPPORTED_TYPE", errorCode(t, rec))
	assert.Empty(t, knowledgeRepo.docs)
}

func TestKnowledgeUploadRequiresFileField(t *testing.T) {
	engine, _, _ := newTestRouter(t, &stubProvider{reply: "unused"})

	rec := performJSON(engine, http.MethodPost, "/api/v1/knowledge-base/upload", gin.H{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UPLOAD_MISSING_FILE", errorCode(t, rec))
}

func TestKnowledgeDeleteMissingDocument(t *testing.T) {
	engine, _, _ := newTestRouter(t, &stubProvider{reply: "unused"})

	rec := performJSON(engine, http.MethodDelete, "/api/v1/knowledge-base/no-such-id", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "KNOWLEDGE_NOT_FOUND", errorCode(t, rec))
}

func TestAnalyticsEndpointAlwaysSucceeds(t *testing.T) {
	engine, _, _ := newTestRouter(t, &stubProvider{reply: "unused"})

	rec := performJSON(engine, http.MethodGet, "/api/v1/analytics", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot models.AnalyticsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 0.8, snapshot.AvgResponseTime)
	assert.Equal(t, 4.6, snapshot.SatisfactionScore)
}
