package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"contacthub-backend/internal/command"
	"contacthub-backend/internal/contact/domain"
	contactdto "contacthub-backend/internal/contact/dto"
	"contacthub-backend/internal/contact/usecase"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
}

func NewContactHandler(contactUsecase usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
	}
}

// GetContacts lists contacts, or searches them when q is set
// GET /api/contacts?q=jon&limit=20
func (h *ContactHandler) GetContacts(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	contacts, err := h.contactUsecase.ListContacts(c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contactdto.ContactsResponse{Contacts: contacts, Total: len(contacts)})
}

func (h *ContactHandler) GetContactByID(c *gin.Context) {
	contact, err := h.contactUsecase.GetContact(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req contactdto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FirstName == "" && req.LastName == "" && req.Email == "" && req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one of first_name, last_name, email or phone is required"})
		return
	}

	contact, err := h.contactUsecase.CreateContact(&req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// UpdateContact applies an undoable edit
// PUT /api/contacts/:id {"first_name": "...", "email": "..."}
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.contactUsecase.UpdateContact(c.Param("id"), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contactUsecase.DeleteContact(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MergeContacts merges source into target
// POST /api/contacts/merge {"source_id", "target_id", "merged_data"}
func (h *ContactHandler) MergeContacts(c *gin.Context) {
	var req contactdto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merged, err := h.contactUsecase.MergeContacts(&req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contact": merged})
}

func (h *ContactHandler) Undo(c *gin.Context) {
	result, err := h.contactUsecase.Undo()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ContactHandler) Redo(c *gin.Context) {
	result, err := h.contactUsecase.Redo()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ContactHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.contactUsecase.History())
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidField),
		errors.Is(err, domain.ErrInvalidMetadata),
		errors.Is(err, command.ErrSelfMerge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, command.ErrUndoStateInconsistent):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
