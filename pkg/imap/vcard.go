package imap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/pkg/vcardmap"

	"github.com/emersion/go-message"
	"github.com/emersion/go-vcard"
)

var vcardTypes = map[string]bool{
	"text/vcard":   true,
	"text/x-vcard": true,
}

// ExtractVCard returns the first vCard part of a MIME message, or "" if none
func ExtractVCard(r io.Reader) (string, error) {
	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return "", fmt.Errorf("parse message: %w", err)
	}

	var found string
	errFound := errors.New("found")
	walkErr := entity.Walk(func(path []int, part *message.Entity, err error) error {
		if err != nil {
			if message.IsUnknownCharset(err) {
				return nil
			}
			return err
		}
		contentType, _, err := part.Header.ContentType()
		if err != nil || !vcardTypes[strings.ToLower(contentType)] {
			return nil
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return err
		}
		found = string(body)
		return errFound
	})
	if walkErr != nil && !errors.Is(walkErr, errFound) {
		return "", walkErr
	}
	return found, nil
}

// ContactFromVCard maps a vCard onto a contact of the given IMAP provider
func ContactFromVCard(provider, uid, raw string) (*domain.Contact, error) {
	card, err := vcard.NewDecoder(bytes.NewReader([]byte(raw))).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode vcard: %w", err)
	}
	return vcardmap.ToContact("imap_"+provider, uid, card, raw)
}
