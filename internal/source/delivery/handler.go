package delivery

import (
	"errors"
	"net/http"

	"contacthub-backend/internal/source/domain"
	sourcedto "contacthub-backend/internal/source/dto"
	"contacthub-backend/internal/source/usecase"

	"github.com/gin-gonic/gin"
)

type SourceHandler struct {
	sourceUsecase usecase.SourceUsecase
}

func NewSourceHandler(sourceUsecase usecase.SourceUsecase) *SourceHandler {
	return &SourceHandler{
		sourceUsecase: sourceUsecase,
	}
}

func (h *SourceHandler) GetSources(c *gin.Context) {
	sources, err := h.sourceUsecase.ListSources()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sources == nil {
		sources = []*domain.SourceConfig{}
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources, "total": len(sources)})
}

// CreateSource configures a Gmail, IMAP or CardDAV connection
// POST /api/sources {"source_type": "imap", "provider": "yahoo", "username": "...", "password": "..."}
func (h *SourceHandler) CreateSource(c *gin.Context) {
	var req sourcedto.CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source, err := h.sourceUsecase.Configure(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (h *SourceHandler) GetGmailAuthURL(c *gin.Context) {
	resp, err := h.sourceUsecase.GmailAuthURL()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GmailCallback finishes the OAuth consent flow
// GET /api/sources/gmail/callback?code=...&state=...
func (h *SourceHandler) GmailCallback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	source, err := h.sourceUsecase.Configure(c.Request.Context(), &sourcedto.CreateSourceRequest{
		SourceType: domain.SourceTypeGmail,
		Code:       c.Query("code"),
		State:      c.Query("state"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (h *SourceHandler) DeleteSource(c *gin.Context) {
	if err := h.sourceUsecase.Disconnect(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SyncSource starts a background sync and answers with its task id
// POST /api/sources/:id/sync
func (h *SourceHandler) SyncSource(c *gin.Context) {
	resp, err := h.sourceUsecase.Sync(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// PreviewCSV returns headers, detected column mapping and the first rows
// POST /api/sources/csv/preview (multipart: file)
func (h *SourceHandler) PreviewCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	preview, err := h.sourceUsecase.PreviewCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sourcedto.CSVPreviewResponse{Preview: preview})
}

// ImportCSV imports an exported address book
// POST /api/sources/csv/import (multipart: file, provider)
func (h *SourceHandler) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.sourceUsecase.ImportCSV(c.PostForm("provider"), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case usecase.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
