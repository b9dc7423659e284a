// SPDX-License-Identifier: MPL-2.0

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest allowed record name, in characters.
const MaxNameLength = 50

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid configuration name")

type (
	// Record is a single named configuration. Name is its identity and its
	// filename in the store. Extra preserves free-form fields found in the
	// record file so a load/save cycle never drops user data.
	Record struct {
		Name        string
		Description string
		Extra       map[string]any
	}

	// InvalidNameError is returned when a record name fails validation.
	// It wraps ErrInvalidName for errors.Is() compatibility.
	InvalidNameError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidName.Error(), e.Name, e.Reason)
}

// Unwrap returns ErrInvalidName so callers can match with errors.Is.
func (e *InvalidNameError) Unwrap() error {
	return ErrInvalidName
}

// ValidateName checks that name is usable as a record identity and as a
// filename: non-empty, at most MaxNameLength characters, and free of path
// syntax that would escape the store directory.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidNameError{Name: name, Reason: "name must not be empty"}
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return &InvalidNameError{Name: name, Reason: fmt.Sprintf("name has %d characters, maximum is %d", n, MaxNameLength)}
	}
	if strings.ContainsAny(name, `/\`) {
		return &InvalidNameError{Name: name, Reason: "name must not contain path separators"}
	}
	if name == "." || name == ".." {
		return &InvalidNameError{Name: name, Reason: "name must not be a relative path element"}
	}
	if name == reservedName {
		return &InvalidNameError{Name: name, Reason: fmt.Sprintf("%q is reserved for the active pointer file", reservedName)}
	}
	return nil
}

// Validate checks the record before it is written.
func (r *Record) Validate() error {
	return ValidateName(r.Name)
}

// MarshalJSON flattens the record into a single JSON object with the extra
// fields alongside name and description.
func (r Record) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		doc[k] = v
	}
	doc["name"] = r.Name
	if r.Description != "" {
		doc["description"] = r.Description
	} else {
		delete(doc, "description")
	}
	return json.Marshal(doc)
}

// UnmarshalJSON pulls name and description out of the object and keeps any
// remaining fields in Extra.
func (r *Record) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if name, ok := doc["name"].(string); ok {
		r.Name = name
	}
	if desc, ok := doc["description"].(string); ok {
		r.Description = desc
	}
	delete(doc, "name")
	delete(doc, "description")

	if len(doc) > 0 {
		r.Extra = doc
	} else {
		r.Extra = nil
	}
	return nil
}

// Equal reports whether two records have the same name, description, and
// extra fields. Extra values are compared by their JSON encoding since they
// come from JSON in the first place.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Name != other.Name || r.Description != other.Description {
		return false
	}
	if len(r.Extra) != len(other.Extra) {
		return false
	}
	for k, v := range r.Extra {
		ov, ok := other.Extra[k]
		if !ok {
			return false
		}
		a, err := json.Marshal(v)
		if err != nil {
			return false
		}
		b, err := json.Marshal(ov)
		if err != nil {
			return false
		}
		if string(a) != string(b) {
			return false
		}
	}
	return true
}
