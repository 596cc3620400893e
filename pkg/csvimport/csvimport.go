// Package csvimport reads address-book exports (Yahoo, Outlook, Google CSV)
// into contacts.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"contacthub-backend/internal/contact/domain"

	"github.com/google/uuid"
)

// ErrNoKnownColumns is returned when no header maps to a contact field
var ErrNoKnownColumns = errors.New("could not identify any contact columns in the CSV header")

// PreviewRows is the number of data rows returned by Preview
const PreviewRows = 3

var headerVariations = map[string][]string{
	domain.FieldFirstName: {"First Name", "FirstName", "Given Name", "GivenName", "First", "Given"},
	domain.FieldLastName:  {"Last Name", "LastName", "Family Name", "FamilyName", "Surname", "Last"},
	domain.FieldEmail:     {"Email", "E-mail", "Email Address", "Primary Email", "E-Mail 1 - Value"},
	domain.FieldPhone: {"Phone", "Phone Number", "Mobile", "Primary Phone", "Mobile Phone",
		"Home Phone", "Business Phone", "Phone 1 - Value", "Mobile Phone 1"},
}

var (
	mobileKeys = []string{"mobile", "cell"}
	workKeys   = []string{"work", "business"}
	phoneKeys  = []string{"phone", "mobile", "cell", "work", "home"}
)

// ids of imported rows are derived from their content so re-importing the
// same file updates contacts instead of duplicating them
var rowNamespace = uuid.MustParse("0b6f5e8e-6a53-4c8f-9f0e-3c2a7d1b9e41")

// Preview is the header and first rows of a CSV file
type Preview struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
	Mapping map[string]string   `json:"mapping"`
}

// PreviewCSV reads the header and the first PreviewRows rows
func PreviewCSV(r io.Reader) (*Preview, error) {
	reader := newReader(r)
	headers, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	preview := &Preview{Headers: headers, Rows: []map[string]string{}, Mapping: MapHeaders(headers)}
	for len(preview.Rows) < PreviewRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		preview.Rows = append(preview.Rows, toRow(headers, record))
	}
	return preview, nil
}

// MapHeaders finds the CSV column for each contact field, matching known
// header spellings case-insensitively. The first matching column wins.
func MapHeaders(headers []string) map[string]string {
	mapping := make(map[string]string)
	for field, variations := range headerVariations {
		for _, header := range headers {
			if containsFold(variations, strings.TrimSpace(header)) {
				mapping[field] = header
				break
			}
		}
	}
	return mapping
}

// Importer turns CSV rows into contacts for one provider (yahoo, outlook...)
type Importer struct {
	provider string
}

func NewImporter(provider string) *Importer {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = "generic"
	}
	return &Importer{provider: provider}
}

// Source is the contact source name stamped on imported rows
func (i *Importer) Source() string {
	return "csv_" + i.provider
}

// Parse reads every row. Rows without any contact data are skipped.
func (i *Importer) Parse(r io.Reader) ([]*domain.Contact, error) {
	reader := newReader(r)
	headers, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	mapping := MapHeaders(headers)
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoKnownColumns, strings.Join(headers, ", "))
	}

	var contacts []*domain.Contact
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		contact, err := i.rowToContact(headers, record, mapping)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if contact != nil {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

type additionalPhone struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

func (i *Importer) rowToContact(headers, record []string, mapping map[string]string) (*domain.Contact, error) {
	row := toRow(headers, record)

	phone := primaryPhone(headers, row)
	contact := &domain.Contact{
		FirstName: strings.TrimSpace(row[mapping[domain.FieldFirstName]]),
		LastName:  strings.TrimSpace(row[mapping[domain.FieldLastName]]),
		Email:     strings.TrimSpace(row[mapping[domain.FieldEmail]]),
		Phone:     phone,
		Source:    i.Source(),
	}
	if contact.FirstName == "" && contact.LastName == "" && contact.Email == "" && contact.Phone == "" {
		return nil, nil
	}

	var additional []additionalPhone
	for _, header := range headers {
		value := strings.TrimSpace(row[header])
		if value == "" || value == phone || !keyContainsAny(header, phoneKeys) {
			continue
		}
		additional = append(additional, additionalPhone{Type: header, Number: value})
	}

	metadata, err := domain.NewMetadata(map[string]interface{}{
		"original_row":      row,
		"additional_phones": additional,
	})
	if err != nil {
		return nil, err
	}
	contact.Metadata = metadata

	rowID := uuid.NewSHA1(rowNamespace, []byte(i.provider+"\x00"+strings.Join(record, "\x1f"))).String()
	contact.ID = fmt.Sprintf("csv_%s_%s", i.provider, rowID)
	contact.SourceID = rowID
	return contact, nil
}

// primaryPhone prefers a mobile number, then a work number, then any phone column
func primaryPhone(headers []string, row map[string]string) string {
	for _, keys := range [][]string{mobileKeys, workKeys, phoneKeys} {
		for _, header := range headers {
			value := strings.TrimSpace(row[header])
			if value != "" && keyContainsAny(header, keys) {
				return value
			}
		}
	}
	return ""
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

func readHeader(reader *csv.Reader) ([]string, error) {
	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return headers, nil
}

func toRow(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for idx, header := range headers {
		if idx < len(record) {
			row[header] = record[idx]
		} else {
			row[header] = ""
		}
	}
	return row
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func keyContainsAny(key string, needles []string) bool {
	key = strings.ToLower(key)
	for _, needle := range needles {
		if strings.Contains(key, needle) {
			return true
		}
	}
	return false
}
