package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"contacthub-backend/internal/duplicate/usecase"

	"github.com/gin-gonic/gin"
)

type DuplicateHandler struct {
	duplicateUsecase usecase.DuplicateUsecase
}

func NewDuplicateHandler(duplicateUsecase usecase.DuplicateUsecase) *DuplicateHandler {
	return &DuplicateHandler{
		duplicateUsecase: duplicateUsecase,
	}
}

// GetDuplicates serves the cached duplicate pairs
// GET /api/contacts/duplicates?min_confidence=0.85
func (h *DuplicateHandler) GetDuplicates(c *gin.Context) {
	minConfidence := 0.0
	if raw := c.Query("min_confidence"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_confidence must be a number between 0 and 1"})
			return
		}
		minConfidence = parsed
	}

	duplicates, err := h.duplicateUsecase.GetDuplicates(minConfidence)
	if err != nil {
		if errors.Is(err, usecase.ErrCacheNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":     "duplicate detection is still running, try again shortly",
				"not_ready": true,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"duplicates": duplicates, "total": len(duplicates)})
}

// GetCacheStatus reports whether duplicate results are available
// GET /api/cache/status
func (h *DuplicateHandler) GetCacheStatus(c *gin.Context) {
	status, err := h.duplicateUsecase.GetCacheStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}
