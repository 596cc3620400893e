package carddav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/pkg/vcardmap"

	"github.com/emersion/go-vcard"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/carddav"
)

// Providers maps well-known CardDAV providers to their discovery endpoint
var Providers = map[string]string{
	"icloud": "https://contacts.icloud.com",
	"yahoo":  "https://carddav.address.yahoo.com",
}

// Config describes one CardDAV account
type Config struct {
	Provider string
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// ContactSource reads every address book of a CardDAV account
type ContactSource struct {
	cfg    Config
	client *carddav.Client
	logger *slog.Logger
}

// NewContactSource resolves the endpoint from the provider preset when URL is unset
func NewContactSource(cfg Config) (*ContactSource, error) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = "custom"
	}
	if cfg.URL == "" {
		cfg.URL = Providers[cfg.Provider]
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("carddav url is required for provider %q", cfg.Provider)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := webdav.HTTPClientWithBasicAuth(&http.Client{Timeout: cfg.Timeout}, cfg.Username, cfg.Password)
	client, err := carddav.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("carddav client: %w", err)
	}

	return &ContactSource{
		cfg:    cfg,
		client: client,
		logger: slog.Default().With("component", "CardDAV", "provider", cfg.Provider),
	}, nil
}

func (s *ContactSource) Name() string {
	return "carddav_" + s.cfg.Provider
}

// FetchContacts discovers the address book home set and queries every
// address book in it. Cards that cannot be mapped are skipped.
func (s *ContactSource) FetchContacts(ctx context.Context) ([]*domain.Contact, error) {
	principal, err := s.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := s.client.FindAddressBookHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find address book home set: %w", err)
	}
	books, err := s.client.FindAddressBooks(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("list address books: %w", err)
	}

	query := &carddav.AddressBookQuery{
		DataRequest: carddav.AddressDataRequest{AllProp: true},
	}

	var contacts []*domain.Contact
	for _, book := range books {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		objects, err := s.client.QueryAddressBook(ctx, book.Path, query)
		if err != nil {
			return nil, fmt.Errorf("query address book %s: %w", book.Path, err)
		}
		s.logger.Info("reading address book", "path", book.Path, "name", book.Name, "cards", len(objects))

		for _, obj := range objects {
			contact, err := s.toContact(obj)
			if err != nil {
				s.logger.Warn("skipping unmappable card", "path", obj.Path, "error", err)
				continue
			}
			contacts = append(contacts, contact)
		}
	}

	s.logger.Info("fetched contacts", "count", len(contacts))
	return contacts, nil
}

func (s *ContactSource) toContact(obj carddav.AddressObject) (*domain.Contact, error) {
	if obj.Card == nil {
		return nil, fmt.Errorf("empty card")
	}
	return vcardmap.ToContact(s.Name(), CardUID(obj.Card, obj.Path), obj.Card, "")
}

// CardUID prefers the vCard UID and falls back to the resource name without its extension
func CardUID(card vcard.Card, objectPath string) string {
	if uid := strings.TrimSpace(card.Value(vcard.FieldUID)); uid != "" {
		return uid
	}
	base := path.Base(strings.TrimSuffix(objectPath, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
