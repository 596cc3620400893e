package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contacthub-backend/internal/contact/domain"

	"google.golang.org/api/people/v1"
)

const (
	personFields = "names,emailAddresses,phoneNumbers"
	pageSize     = 1000
)

// ContactSource lists the Google contacts of one account
type ContactSource struct {
	service        *Service
	refreshToken   string
	onTokenRefresh TokenUpdateFunc
	now            func() time.Time
	logger         *slog.Logger
}

func NewContactSource(service *Service, refreshToken string, onTokenRefresh TokenUpdateFunc) *ContactSource {
	return &ContactSource{
		service:        service,
		refreshToken:   refreshToken,
		onTokenRefresh: onTokenRefresh,
		now:            time.Now,
		logger:         slog.Default().With("component", "Gmail"),
	}
}

func (s *ContactSource) Name() string {
	return "gmail"
}

// FetchContacts pages through all connections of the authorized user
func (s *ContactSource) FetchContacts(ctx context.Context) ([]*domain.Contact, error) {
	srv, err := s.service.GetPeopleService(ctx, s.refreshToken, s.onTokenRefresh)
	if err != nil {
		return nil, err
	}

	syncedAt := s.now().UTC()
	contacts := make([]*domain.Contact, 0)
	pageToken := ""
	for {
		call := srv.People.Connections.List("people/me").
			PersonFields(personFields).
			PageSize(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list connections: %w", err)
		}

		for _, person := range resp.Connections {
			contact, err := PersonToContact(person, syncedAt)
			if err != nil {
				s.logger.Warn("skipping connection", "resource", person.ResourceName, "error", err)
				continue
			}
			contacts = append(contacts, contact)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	s.logger.Info("fetched contacts", "count", len(contacts))
	return contacts, nil
}

// PersonToContact maps a People API person. The primary name, email and
// phone become contact fields; the rest goes to metadata.
func PersonToContact(person *people.Person, syncedAt time.Time) (*domain.Contact, error) {
	if person == nil || person.ResourceName == "" {
		return nil, fmt.Errorf("person without resource name")
	}
	resourceID := strings.TrimPrefix(person.ResourceName, "people/")

	contact := &domain.Contact{
		ID:       "gmail_" + resourceID,
		Source:   "gmail",
		SourceID: person.ResourceName,
	}

	if name := primaryName(person.Names); name != nil {
		contact.FirstName = name.GivenName
		contact.LastName = name.FamilyName
		if parts := strings.Fields(name.DisplayName); contact.FirstName == "" && contact.LastName == "" && len(parts) > 0 {
			contact.FirstName = parts[0]
			if len(parts) > 1 {
				contact.LastName = parts[len(parts)-1]
			}
		}
	}

	emails := make([]string, 0, len(person.EmailAddresses))
	for _, e := range orderPrimaryEmails(person.EmailAddresses) {
		if v := strings.TrimSpace(e.Value); v != "" {
			emails = append(emails, v)
		}
	}
	phones := make([]string, 0, len(person.PhoneNumbers))
	for _, p := range orderPrimaryPhones(person.PhoneNumbers) {
		if v := strings.TrimSpace(p.Value); v != "" {
			phones = append(phones, v)
		}
	}
	if len(emails) > 0 {
		contact.Email = emails[0]
	}
	if len(phones) > 0 {
		contact.Phone = phones[0]
	}

	raw, err := json.Marshal(person)
	if err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"etag":        person.Etag,
		"last_synced": syncedAt.Format(time.RFC3339),
		"raw_data":    json.RawMessage(raw),
	}
	if len(emails) > 1 {
		payload["additional_emails"] = emails[1:]
	}
	if len(phones) > 1 {
		payload["additional_phones"] = phones[1:]
	}

	metadata, err := domain.NewMetadata(payload)
	if err != nil {
		return nil, err
	}
	contact.Metadata = metadata
	return contact, nil
}

func primaryName(names []*people.Name) *people.Name {
	for _, n := range names {
		if n.Metadata != nil && n.Metadata.Primary {
			return n
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return nil
}

func orderPrimaryEmails(values []*people.EmailAddress) []*people.EmailAddress {
	ordered := make([]*people.EmailAddress, 0, len(values))
	for _, v := range values {
		if v.Metadata != nil && v.Metadata.Primary {
			ordered = append([]*people.EmailAddress{v}, ordered...)
		} else {
			ordered = append(ordered, v)
		}
	}
	return ordered
}

func orderPrimaryPhones(values []*people.PhoneNumber) []*people.PhoneNumber {
	ordered := make([]*people.PhoneNumber, 0, len(values))
	for _, v := range values {
		if v.Metadata != nil && v.Metadata.Primary {
			ordered = append([]*people.PhoneNumber{v}, ordered...)
		} else {
			ordered = append(ordered, v)
		}
	}
	return ordered
}
