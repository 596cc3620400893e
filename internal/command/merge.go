package command

import (
	"fmt"

	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/internal/contact/repository"
)

// MergeCommand folds Source into Target: the chosen field values are written
// onto the target and the source row is deleted.
type MergeCommand struct {
	repo       repository.ContactRepository
	SourceID   string
	TargetID   string
	MergedData map[string]string

	sourceBefore *domain.ContactSnapshot
	targetBefore *domain.ContactSnapshot
}

// NewMergeCommand creates a merge of sourceID into targetID
func NewMergeCommand(repo repository.ContactRepository, sourceID, targetID string, mergedData map[string]string) *MergeCommand {
	return &MergeCommand{
		repo:       repo,
		SourceID:   sourceID,
		TargetID:   targetID,
		MergedData: mergedData,
	}
}

func (c *MergeCommand) Description() string {
	return fmt.Sprintf("Merge contacts %s into %s", c.SourceID, c.TargetID)
}

func (c *MergeCommand) Execute() error {
	if c.SourceID == c.TargetID {
		return ErrSelfMerge
	}
	if err := domain.ValidateFields(c.MergedData); err != nil {
		return err
	}

	var sourceBefore, targetBefore domain.ContactSnapshot
	err := c.repo.Transaction(func(tx repository.ContactRepository) error {
		source, err := findLive(tx, c.SourceID)
		if err != nil {
			return err
		}
		target, err := findLive(tx, c.TargetID)
		if err != nil {
			return err
		}

		sourceBefore = domain.SnapshotOf(source)
		targetBefore = domain.SnapshotOf(target)

		domain.ApplyFields(target, c.MergedData)
		if err := tx.Update(target); err != nil {
			return fmt.Errorf("update target %s: %w", target.ID, err)
		}
		if err := tx.Delete(source.ID); err != nil {
			return fmt.Errorf("delete source %s: %w", source.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.sourceBefore = &sourceBefore
	c.targetBefore = &targetBefore
	return nil
}

// Undo puts the target back exactly as it was and recreates the source with
// its original id and fields.
func (c *MergeCommand) Undo() error {
	if c.sourceBefore == nil || c.targetBefore == nil {
		return fmt.Errorf("%w: merge %s into %s was never executed", ErrUndoStateInconsistent, c.SourceID, c.TargetID)
	}

	return c.repo.Transaction(func(tx repository.ContactRepository) error {
		target, err := tx.FindByID(c.TargetID)
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("%w: target %s no longer exists", ErrUndoStateInconsistent, c.TargetID)
		}
		if target.Deleted {
			return fmt.Errorf("%w: target %s was deleted", ErrUndoStateInconsistent, c.TargetID)
		}
		source, err := tx.FindByID(c.SourceID)
		if err != nil {
			return err
		}
		if source != nil {
			return fmt.Errorf("%w: source %s exists again", ErrUndoStateInconsistent, c.SourceID)
		}

		if err := tx.Restore(c.targetBefore.Contact()); err != nil {
			return fmt.Errorf("restore target %s: %w", c.TargetID, err)
		}
		if err := tx.Restore(c.sourceBefore.Contact()); err != nil {
			return fmt.Errorf("recreate source %s: %w", c.SourceID, err)
		}
		return nil
	})
}

// findLive loads a contact that is neither missing nor soft-deleted
func findLive(repo repository.ContactRepository, id string) (*domain.Contact, error) {
	contact, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.Deleted {
		return nil, fmt.Errorf("%w: %s", domain.ErrContactNotFound, id)
	}
	return contact, nil
}
