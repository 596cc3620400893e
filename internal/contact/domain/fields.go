package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidField is returned when a field map names a field that cannot be written
var ErrInvalidField = errors.New("invalid contact field")

// Editable contact fields accepted by edit and merge requests
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

var editableFields = map[string]func(c *Contact, value string){
	FieldFirstName: func(c *Contact, v string) { c.FirstName = v },
	FieldLastName:  func(c *Contact, v string) { c.LastName = v },
	FieldEmail:     func(c *Contact, v string) { c.Email = v },
	FieldPhone:     func(c *Contact, v string) { c.Phone = v },
}

// ValidateFields rejects any field name that is not editable
func ValidateFields(values map[string]string) error {
	for name := range values {
		if _, ok := editableFields[name]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidField, name)
		}
	}
	return nil
}

// ApplyFields writes values onto c in a stable field order.
// Call ValidateFields first; unknown names are ignored here.
func ApplyFields(c *Contact, values map[string]string) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if set, ok := editableFields[name]; ok {
			set(c, values[name])
		}
	}
}
