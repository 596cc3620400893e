package command

import (
	"fmt"

	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/internal/contact/repository"
)

// EditCommand overwrites editable fields of one contact
type EditCommand struct {
	repo      repository.ContactRepository
	ContactID string
	NewData   map[string]string

	before *domain.ContactSnapshot
}

// NewEditCommand creates an edit of contactID
func NewEditCommand(repo repository.ContactRepository, contactID string, newData map[string]string) *EditCommand {
	return &EditCommand{repo: repo, ContactID: contactID, NewData: newData}
}

func (c *EditCommand) Description() string {
	return fmt.Sprintf("Edit contact %s", c.ContactID)
}

func (c *EditCommand) Execute() error {
	if err := domain.ValidateFields(c.NewData); err != nil {
		return err
	}

	var before domain.ContactSnapshot
	err := c.repo.Transaction(func(tx repository.ContactRepository) error {
		contact, err := findLive(tx, c.ContactID)
		if err != nil {
			return err
		}

		before = domain.SnapshotOf(contact)
		domain.ApplyFields(contact, c.NewData)
		return tx.Update(contact)
	})
	if err != nil {
		return err
	}

	c.before = &before
	return nil
}

func (c *EditCommand) Undo() error {
	if c.before == nil {
		return fmt.Errorf("%w: edit of %s was never executed", ErrUndoStateInconsistent, c.ContactID)
	}

	return c.repo.Transaction(func(tx repository.ContactRepository) error {
		contact, err := tx.FindByID(c.ContactID)
		if err != nil {
			return err
		}
		if contact == nil {
			return fmt.Errorf("%w: contact %s no longer exists", ErrUndoStateInconsistent, c.ContactID)
		}
		if contact.Deleted {
			return fmt.Errorf("%w: contact %s was deleted", ErrUndoStateInconsistent, c.ContactID)
		}
		return tx.Restore(c.before.Contact())
	})
}
