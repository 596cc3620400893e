// Package command implements reversible contact mutations and the
// session-local undo/redo history that drives them.
package command

import (
	"errors"

	"contacthub-backend/internal/contact/domain"
)

var (
	// ErrUndoStateInconsistent is returned when the database no longer matches
	// what a command recorded, so reversing it would lose or duplicate data.
	ErrUndoStateInconsistent = errors.New("undo state inconsistent")
	// ErrSelfMerge is returned when source and target are the same contact
	ErrSelfMerge = errors.New("cannot merge a contact into itself")
	// ErrInvalidField is returned for field names that merge and edit cannot write
	ErrInvalidField = domain.ErrInvalidField
)

// Command is a reversible mutation. Execute must be safe to call again after
// Undo; that is how redo works.
type Command interface {
	Execute() error
	Undo() error
	Description() string
}
