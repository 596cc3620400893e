package dto

import (
	"contacthub-backend/internal/command"
	contactdomain "contacthub-backend/internal/contact/domain"
)

type ContactsResponse struct {
	Contacts []*contactdomain.Contact `json:"contacts"`
	Total    int                      `json:"total"`
}

type CreateContactRequest struct {
	FirstName string                 `json:"first_name"`
	LastName  string                 `json:"last_name"`
	Email     string                 `json:"email" binding:"omitempty,email"`
	Phone     string                 `json:"phone"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type MergeRequest struct {
	SourceID   string            `json:"source_id" binding:"required"`
	TargetID   string            `json:"target_id" binding:"required"`
	MergedData map[string]string `json:"merged_data"`
}

type HistoryActionResponse struct {
	Success         bool   `json:"success"`
	CanUndo         bool   `json:"can_undo"`
	CanRedo         bool   `json:"can_redo"`
	UndoDescription string `json:"undo_description"`
	RedoDescription string `json:"redo_description"`
}

type HistoryResponse struct {
	Entries []command.HistoryEntry `json:"entries"`
	HistoryActionResponse
}
