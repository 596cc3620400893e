package imap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVCard = "BEGIN:VCARD\r\n" +
	"VERSION:3.0\r\n" +
	"N:Lovelace;Ada;;;\r\n" +
	"FN:Ada Lovelace\r\n" +
	"EMAIL;TYPE=INTERNET:ada@example.com\r\n" +
	"TEL;TYPE=CELL:+1 555 010 2030\r\n" +
	"END:VCARD\r\n"

func multipartMessage(vcardType string) string {
	return "From: contacts@yahoo.example\r\n" +
		"Subject: Contact\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"XYZ\"\r\n" +
		"\r\n" +
		"--XYZ\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"see attached\r\n" +
		"--XYZ\r\n" +
		"Content-Type: " + vcardType + "\r\n" +
		"\r\n" +
		sampleVCard +
		"--XYZ--\r\n"
}

func TestExtractVCard(t *testing.T) {
	for _, vcardType := range []string{"text/vcard", "text/x-vcard"} {
		t.Run(vcardType, func(t *testing.T) {
			raw, err := ExtractVCard(strings.NewReader(multipartMessage(vcardType)))
			require.NoError(t, err)
			assert.Contains(t, raw, "FN:Ada Lovelace")
		})
	}
}

func TestExtractVCardWithoutCard(t *testing.T) {
	msg := "Subject: hello\r\nContent-Type: text/plain\r\n\r\njust text\r\n"
	raw, err := ExtractVCard(strings.NewReader(msg))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestContactFromVCard(t *testing.T) {
	contact, err := ContactFromVCard("yahoo", "42", sampleVCard)
	require.NoError(t, err)

	assert.Equal(t, "imap_yahoo_42", contact.ID)
	assert.Equal(t, "imap_yahoo", contact.Source)
	assert.Equal(t, "42", contact.SourceID)
	assert.Equal(t, "Ada", contact.FirstName)
	assert.Equal(t, "Lovelace", contact.LastName)
	assert.Equal(t, "ada@example.com", contact.Email)
	assert.Equal(t, "+1 555 010 2030", contact.Phone)

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(contact.Metadata, &metadata))
	assert.Equal(t, sampleVCard, metadata["vcard"])
}

func TestContactFromVCardFormattedNameFallback(t *testing.T) {
	raw := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Brewster Hopper\r\nEND:VCARD\r\n"

	contact, err := ContactFromVCard("aol", "7", raw)
	require.NoError(t, err)
	assert.Equal(t, "Grace", contact.FirstName)
	assert.Equal(t, "Hopper", contact.LastName)
}

func TestContactFromVCardRejectsGarbage(t *testing.T) {
	_, err := ContactFromVCard("yahoo", "1", "not a card")
	assert.Error(t, err)
}

func TestChooseFolder(t *testing.T) {
	available := []string{"INBOX", "Sent", "@C", "Archive"}
	assert.Equal(t, "@C", ChooseFolder(Providers["yahoo"].Folders, available))

	assert.Equal(t, "Contacts", ChooseFolder([]string{"contacts"}, []string{"INBOX", "Contacts"}))
	assert.Equal(t, "My Contacts", ChooseFolder(defaultFolders, []string{"INBOX", "My Contacts"}))
	assert.Empty(t, ChooseFolder(defaultFolders, []string{"INBOX", "Sent"}))
}

func TestNewContactSourcePresets(t *testing.T) {
	src, err := NewContactSource(Config{Provider: "Yahoo", Username: "u"})
	require.NoError(t, err)
	assert.Equal(t, "imap_yahoo", src.Name())
	assert.Equal(t, "imap.mail.yahoo.com", src.cfg.Host)
	assert.Equal(t, 993, src.cfg.Port)

	_, err = NewContactSource(Config{Provider: "fastmail"})
	assert.Error(t, err)

	src, err = NewContactSource(Config{Provider: "fastmail", Host: "imap.fastmail.com"})
	require.NoError(t, err)
	assert.Equal(t, 993, src.cfg.Port)
	assert.Equal(t, []string{"Contacts", "Contacts/VCard"}, src.candidates())
}
