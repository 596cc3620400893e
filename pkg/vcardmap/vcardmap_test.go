package vcardmap

import (
	"encoding/json"
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToContactUsesStructuredName(t *testing.T) {
	card := vcard.Card{}
	card.SetValue(vcard.FieldVersion, "3.0")
	card.SetName(&vcard.Name{GivenName: " Ada ", FamilyName: "Lovelace"})
	card.SetValue(vcard.FieldFormattedName, "Countess Ada Lovelace")
	card.SetValue(vcard.FieldEmail, "ada@example.com")
	card.SetValue(vcard.FieldTelephone, " +1 555 010 2030 ")

	contact, err := ToContact("carddav_icloud", "abc-123", card, "")
	require.NoError(t, err)

	assert.Equal(t, "carddav_icloud_abc-123", contact.ID)
	assert.Equal(t, "carddav_icloud", contact.Source)
	assert.Equal(t, "abc-123", contact.SourceID)
	assert.Equal(t, "Ada", contact.FirstName)
	assert.Equal(t, "Lovelace", contact.LastName)
	assert.Equal(t, "ada@example.com", contact.Email)
	assert.Equal(t, "+1 555 010 2030", contact.Phone)

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(contact.Metadata, &metadata))
	assert.Contains(t, metadata["vcard"], "BEGIN:VCARD")
	assert.Contains(t, metadata["vcard"], "ada@example.com")
}

func TestToContactKeepsGivenRaw(t *testing.T) {
	card := vcard.Card{}
	card.SetValue(vcard.FieldFormattedName, "Grace Brewster Hopper")

	contact, err := ToContact("imap_aol", "7", card, "RAW")
	require.NoError(t, err)
	assert.Equal(t, "Grace", contact.FirstName)
	assert.Equal(t, "Hopper", contact.LastName)

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(contact.Metadata, &metadata))
	assert.Equal(t, "RAW", metadata["vcard"])
}

func TestToContactWithoutName(t *testing.T) {
	card := vcard.Card{}
	card.SetValue(vcard.FieldEmail, "nobody@example.com")

	contact, err := ToContact("carddav_yahoo", "1", card, "x")
	require.NoError(t, err)
	assert.Empty(t, contact.FirstName)
	assert.Empty(t, contact.LastName)
	assert.Equal(t, "nobody@example.com", contact.Email)
}
