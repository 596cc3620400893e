package vcardmap

import (
	"bytes"
	"fmt"
	"strings"

	"contacthub-backend/internal/contact/domain"

	"github.com/emersion/go-vcard"
)

// ToContact maps a decoded vCard onto a contact of the given source.
// The contact id is "<source>_<sourceID>"; raw is kept in metadata and is
// re-encoded from card when empty.
func ToContact(source, sourceID string, card vcard.Card, raw string) (*domain.Contact, error) {
	if raw == "" {
		var buf bytes.Buffer
		if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
			return nil, fmt.Errorf("encode vcard: %w", err)
		}
		raw = buf.String()
	}

	contact := &domain.Contact{
		ID:       source + "_" + sourceID,
		Source:   source,
		SourceID: sourceID,
		Email:    strings.TrimSpace(card.PreferredValue(vcard.FieldEmail)),
		Phone:    strings.TrimSpace(card.PreferredValue(vcard.FieldTelephone)),
	}

	if name := card.Name(); name != nil && (name.GivenName != "" || name.FamilyName != "") {
		contact.FirstName = strings.TrimSpace(name.GivenName)
		contact.LastName = strings.TrimSpace(name.FamilyName)
	} else if parts := strings.Fields(card.PreferredValue(vcard.FieldFormattedName)); len(parts) > 0 {
		contact.FirstName = parts[0]
		if len(parts) > 1 {
			contact.LastName = parts[len(parts)-1]
		}
	}

	metadata, err := domain.NewMetadata(map[string]interface{}{"vcard": raw})
	if err != nil {
		return nil, err
	}
	contact.Metadata = metadata
	return contact, nil
}
