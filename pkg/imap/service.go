package imap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"contacthub-backend/internal/contact/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// ErrNoContactsFolder is returned when no folder on the server looks like an address book
var ErrNoContactsFolder = errors.New("could not find contacts folder")

// ProviderSettings holds the server of a well-known IMAP provider
type ProviderSettings struct {
	Host    string
	Port    int
	Folders []string
}

// Providers lists presets; other providers need an explicit host
var Providers = map[string]ProviderSettings{
	"yahoo": {
		Host: "imap.mail.yahoo.com",
		Port: 993,
		Folders: []string{"Contacts", "Contacts/VCard", "@Contacts", "@C", "Contact",
			"Yahoo/Contacts", "Yahoo/Contact"},
	},
	"aol":    {Host: "imap.aol.com", Port: 993},
	"icloud": {Host: "imap.mail.me.com", Port: 993},
}

var defaultFolders = []string{"Contacts", "Contacts/VCard"}

// Config describes one IMAP account
type Config struct {
	Provider string
	Host     string
	Port     int
	Username string
	Password string
	Folder   string
	Timeout  time.Duration
}

// ContactSource reads vCard messages from the contacts folder of an IMAP account
type ContactSource struct {
	cfg    Config
	logger *slog.Logger
}

// NewContactSource fills host, port and folders from the provider preset when unset
func NewContactSource(cfg Config) (*ContactSource, error) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = "custom"
	}
	if preset, ok := Providers[cfg.Provider]; ok {
		if cfg.Host == "" {
			cfg.Host = preset.Host
		}
		if cfg.Port == 0 {
			cfg.Port = preset.Port
		}
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("imap host is required for provider %q", cfg.Provider)
	}
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &ContactSource{
		cfg:    cfg,
		logger: slog.Default().With("component", "IMAP", "provider", cfg.Provider),
	}, nil
}

func (s *ContactSource) Name() string {
	return "imap_" + s.cfg.Provider
}

// FetchContacts logs in, selects the contacts folder read-only and parses
// the vCard part of every message. Unparseable messages are skipped.
func (s *ContactSource) FetchContacts(ctx context.Context) ([]*domain.Contact, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	c.Timeout = s.cfg.Timeout
	defer func() {
		if err := c.Logout(); err != nil {
			s.logger.Debug("logout failed", "error", err)
		}
	}()

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	folders, err := listFolders(c)
	if err != nil {
		return nil, err
	}
	folder := ChooseFolder(s.candidates(), folders)
	if folder == "" {
		return nil, fmt.Errorf("%w; available folders: %s", ErrNoContactsFolder, strings.Join(folders, ", "))
	}

	mbox, err := c.Select(folder, true)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", folder, err)
	}
	s.logger.Info("reading contacts folder", "folder", folder, "messages", mbox.Messages)
	if mbox.Messages == 0 {
		return []*domain.Contact{}, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(1, mbox.Messages)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var contacts []*domain.Contact
	for msg := range messages {
		if ctx.Err() != nil {
			continue
		}
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		uid := strconv.FormatUint(uint64(msg.Uid), 10)

		raw, err := ExtractVCard(body)
		if err != nil || raw == "" {
			s.logger.Debug("no contact data in message", "uid", uid, "error", err)
			continue
		}
		contact, err := ContactFromVCard(s.cfg.Provider, uid, raw)
		if err != nil {
			s.logger.Warn("skipping unparseable vcard", "uid", uid, "error", err)
			continue
		}
		contacts = append(contacts, contact)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("fetched contacts", "count", len(contacts))
	return contacts, nil
}

func (s *ContactSource) candidates() []string {
	if s.cfg.Folder != "" {
		return []string{s.cfg.Folder}
	}
	if preset, ok := Providers[s.cfg.Provider]; ok && len(preset.Folders) > 0 {
		return preset.Folders
	}
	return defaultFolders
}

func listFolders(c *client.Client) ([]string, error) {
	mailboxes := make(chan *imap.MailboxInfo, 16)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", mailboxes)
	}()

	var names []string
	for m := range mailboxes {
		names = append(names, m.Name)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return names, nil
}

// ChooseFolder picks the first candidate present on the server, falling back
// to any folder whose name contains "contact"
func ChooseFolder(candidates, available []string) string {
	for _, want := range candidates {
		for _, name := range available {
			if strings.EqualFold(name, want) {
				return name
			}
		}
	}
	for _, name := range available {
		if strings.Contains(strings.ToLower(name), "contact") {
			return name
		}
	}
	return ""
}
