package service

import (
	"context"
	"strings"
	"testing"

	"supportgenie/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKnowledgeService(repo *fakeKnowledgeRepo) *KnowledgeService {
	return NewKnowledgeService(repo, testCache(), testLogger(), 50, 5<<20)
}

func TestUploadStoresTextDocument(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := newKnowledgeService(repo)

	doc, err := svc.Upload(context.Background(), "faq.txt", "text/plain", []byte("Q: hours?\nA: 9-5"))

	require.NoError(t, err)
	assert.Equal(t, "faq.txt", doc.Filename)
	assert.Equal(t, "Q: hours?\nA: 9-5", doc.Content)
	assert.Len(t, repo.docs, 1)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newKnowledgeService(newFakeKnowledgeRepo())

	_, err := svc.Upload(context.Background(), "faq.txt", "text/plain", nil)

	require.Error(t, err)
	appErr := errors.FromError(err)
	assert.Equal(t, "UPLOAD_EMPTY", appErr.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := NewKnowledgeService(repo, testCache(), testLogger(), 50, 16)

	_, err := svc.Upload(context.Background(), "faq.txt", "text/plain", []byte(strings.Repeat("a", 17)))

	require.Error(t, err)
	assert.Equal(t, "UPLOAD_TOO_LARGE", errors.FromError(err).Code)
	assert.Empty(t, repo.docs)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	svc := newKnowledgeService(newFakeKnowledgeRepo())

	_, err := svc.Upload(context.Background(), "malware.exe", "application/octet-stream", []byte("x"))

	require.Error(t, err)
	assert.Equal(t, "UPLOAD_UNSUPPORTED_TYPE", errors.FromError(err).Code)
}

func TestUploadRejectsContentTypeMismatch(t *testing.T) {
	svc := newKnowledgeService(newFakeKnowledgeRepo())

	_, err := svc.Upload(context.Background(), "faq.txt", "application/pdf", []byte("hello"))

	require.Error(t, err)
	assert.Equal(t, "UPLOAD_TYPE_MISMATCH", errors.FromError(err).Code)
}

func TestUploadRejectsInvalidUTF8ForTextTypes(t *testing.T) {
	svc := newKnowledgeService(newFakeKnowledgeRepo())

	_, err := svc.Upload(context.Background(), "data.csv", "text/csv", []byte{0xff, 0xfe, 0x00})

	require.Error(t, err)
	assert.Equal(t, "UPLOAD_INVALID_ENCODING", errors.FromError(err).Code)
}

func TestUploadAcceptsPDFWithPlaceholderContent(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := newKnowledgeService(repo)

	// Raw PDF bytes are not UTF-8; the type check still passes and a
	// placeholder is stored instead of extracted text.
	doc, err := svc.Upload(context.Background(), "manual.pdf", "application/pdf", []byte{0x25, 0x50, 0x44, 0x46, 0xff})

	require.NoError(t, err)
	assert.Contains(t, doc.Content, "manual.pdf")
	assert.Equal(t, "application/pdf", doc.ContentType)
}

func TestUploadSameFilenameReplacesDocument(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := newKnowledgeService(repo)

	first, err := svc.Upload(context.Background(), "faq.txt", "text/plain", []byte("v1"))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "faq.txt", "text/plain", []byte("v2"))
	require.NoError(t, err)

	assert.Len(t, repo.docs, 1)
	assert.Equal(t, "v2", repo.docs["faq.txt"].Content)
	assert.Equal(t, first.ID, repo.docs["faq.txt"].ID)
}

func TestUploadReturnedIDIsDeletableAfterReupload(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := newKnowledgeService(repo)

	_, err := svc.Upload(context.Background(), "faq.txt", "text/plain", []byte("v1"))
	require.NoError(t, err)

	// The second upload conflicts on filename; the id it reports must be
	// the stored one, not the freshly minted uuid the insert attempted.
	second, err := svc.Upload(context.Background(), "faq.txt", "text/plain", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, repo.docs["faq.txt"].ID, second.ID)

	require.NoError(t, svc.Delete(context.Background(), second.ID))
	assert.Empty(t, repo.docs)
}

func TestDeleteMissingDocumentReturnsNotFound(t *testing.T) {
	svc := newKnowledgeService(newFakeKnowledgeRepo())

	err := svc.Delete(context.Background(), "no-such-id")

	require.Error(t, err)
	assert.Equal(t, "KNOWLEDGE_NOT_FOUND", errors.FromError(err).Code)
}

func TestRetrieveContextConcatenatesDocuments(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := newKnowledgeService(repo)

	_, err := svc.Upload(context.Background(), "faq.txt", "text/plain", []byte("returns: 30 days"))
	require.NoError(t, err)

	text := svc.RetrieveContext(context.Background())

	assert.Contains(t, text, "Document: faq.txt")
	assert.Contains(t, text, "returns: 30 days")
}

func TestRetrieveContextSwallowsStorageFailure(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	repo.listErr = errStoreDown
	svc := newKnowledgeService(repo)

	assert.Equal(t, "", svc.RetrieveContext(context.Background()))
}

func TestRetrieveContextUsesCacheUntilInvalidated(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := newKnowledgeService(repo)

	_, err := svc.Upload(context.Background(), "a.txt", "text/plain", []byte("alpha"))
	require.NoError(t, err)

	first := svc.RetrieveContext(context.Background())
	assert.Contains(t, first, "alpha")

	// A storage outage is invisible while the cache holds the context.
	repo.listErr = errStoreDown
	assert.Equal(t, first, svc.RetrieveContext(context.Background()))
}
