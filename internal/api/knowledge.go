package api

import (
	"io"
	"net/http"

	"supportgenie/backend/internal/service"
	"supportgenie/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// KnowledgeController handles knowledge-base API endpoints
type KnowledgeController struct {
	knowledgeService *service.KnowledgeService
}

// NewKnowledgeController creates a new knowledge controller
func NewKnowledgeController(knowledgeService *service.KnowledgeService) *KnowledgeController {
	return &KnowledgeController{knowledgeService: knowledgeService}
}

// RegisterRoutesV1 registers the knowledge-base routes under the given group
func (c *KnowledgeController) RegisterRoutesV1(group *gin.RouterGroup) {
	kb := group.Group("/knowledge-base")
	{
		kb.POST("/upload", c.Upload)
		kb.GET("", c.List)
		kb.DELETE("/:id", c.Delete)
	}
}

// Upload stores an uploaded knowledge document
func (c *KnowledgeController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.Error(errors.NewBadRequestError("UPLOAD_MISSING_FILE", "A file form field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.Error(errors.NewBadRequestError("UPLOAD_UNREADABLE", "Uploaded file could not be read"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctx.Error(errors.NewBadRequestError("UPLOAD_UNREADABLE", "Uploaded file could not be read"))
		return
	}

	doc, err := c.knowledgeService.Upload(
		ctx.Request.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Knowledge base updated successfully",
		"filename": doc.Filename,
		"id":       doc.ID,
	})
}

// List returns the stored knowledge documents
func (c *KnowledgeController) List(ctx *gin.Context) {
	docs, err := c.knowledgeService.List(ctx.Request.Context())
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, docs)
}

// Delete removes a knowledge document by id
func (c *KnowledgeController) Delete(ctx *gin.Context) {
	if err := c.knowledgeService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Knowledge base item deleted successfully"})
}
