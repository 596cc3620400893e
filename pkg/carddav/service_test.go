package carddav

import (
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/emersion/go-webdav/carddav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactSourceUsesPreset(t *testing.T) {
	src, err := NewContactSource(Config{Provider: " iCloud ", Username: "ada", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "carddav_icloud", src.Name())
	assert.Equal(t, Providers["icloud"], src.cfg.URL)
}

func TestNewContactSourceRequiresURLForCustom(t *testing.T) {
	_, err := NewContactSource(Config{Username: "ada", Password: "secret"})
	require.Error(t, err)

	src, err := NewContactSource(Config{URL: "https://dav.example.com", Username: "ada", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "carddav_custom", src.Name())
}

func TestCardUID(t *testing.T) {
	withUID := vcard.Card{}
	withUID.SetValue(vcard.FieldUID, "urn:uuid:1234")
	assert.Equal(t, "urn:uuid:1234", CardUID(withUID, "/book/ignored.vcf"))

	assert.Equal(t, "abc", CardUID(vcard.Card{}, "/addressbooks/user/default/abc.vcf"))
}

func TestToContactMapsAddressObject(t *testing.T) {
	src, err := NewContactSource(Config{Provider: "yahoo", Username: "ada", Password: "secret"})
	require.NoError(t, err)

	card := vcard.Card{}
	card.SetValue(vcard.FieldUID, "u-1")
	card.SetName(&vcard.Name{GivenName: "Ada", FamilyName: "Lovelace"})
	card.SetValue(vcard.FieldEmail, "ada@example.com")

	contact, err := src.toContact(carddav.AddressObject{Path: "/ab/u-1.vcf", Card: card})
	require.NoError(t, err)
	assert.Equal(t, "carddav_yahoo_u-1", contact.ID)
	assert.Equal(t, "carddav_yahoo", contact.Source)
	assert.Equal(t, "Ada", contact.FirstName)
	assert.Equal(t, "ada@example.com", contact.Email)

	_, err = src.toContact(carddav.AddressObject{Path: "/ab/empty.vcf"})
	assert.Error(t, err)
}
