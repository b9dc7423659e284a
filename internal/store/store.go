// SPDX-License-Identifier: MPL-2.0

// Package store persists named configuration records as individual JSON
// files in a directory, plus one pointer file naming the active record.
//
// Layout:
//
//	~/.stencil/configs/<name>.json   one file per record
//	~/.stencil/configs/current.json  {"name": "..."}; empty name = none
//
// Operations are synchronous single-shot file reads and writes. There is no
// locking and no atomic rename; a single process instance is assumed.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"stencil-cli/internal/config"
	"stencil-cli/internal/issue"
)

const (
	// reservedName is the base name of the active pointer file. ValidateName
	// rejects it so a record can never shadow the pointer.
	reservedName = "current"

	// recordExt is the filename extension for record files.
	recordExt = ".json"

	// activePointerFile holds the name of the active record.
	activePointerFile = reservedName + recordExt
)

// ErrNotFound is the sentinel error wrapped by NotFoundError.
var ErrNotFound = errors.New("configuration not found")

type (
	// Store is a file-backed collection of configuration records.
	Store struct {
		dir string
	}

	// NotFoundError is returned when a named record does not exist.
	// It wraps ErrNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Name string
	}

	// activePointer is the on-disk shape of current.json.
	activePointer struct {
		Name string `json:"name"`
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound.Error(), e.Name)
}

// Unwrap returns ErrNotFound so callers can match with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Open opens the store at the standard directory (~/.stencil/configs),
// creating it if needed.
func Open() (*Store, error) {
	dir, err := config.StoreDir()
	if err != nil {
		return nil, issue.WrapWithOperation(err, "resolve store directory")
	}
	return OpenAt(dir)
}

// OpenAt opens a store rooted at dir, creating the directory if needed.
func OpenAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("create store directory").
			WithResource(dir).
			WithSuggestion("Check that the parent directory is writable").
			Wrap(err).
			BuildError()
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the names of all records, sorted. The active pointer file is
// not a record and is excluded.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read store directory").
			WithResource(s.dir).
			Wrap(err).
			BuildError()
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		if fileName == activePointerFile || !strings.HasSuffix(fileName, recordExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(fileName, recordExt))
	}
	slices.Sort(names)
	return names, nil
}

// Get loads the record with the given name.
func (s *Store) Get(name string) (*Record, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.recordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, issue.NewErrorContext().
			WithOperation("read configuration").
			WithResource(s.recordPath(name)).
			Wrap(err).
			BuildError()
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(s.recordPath(name)).
			WithSuggestion("The file is not valid JSON; fix or delete it").
			Wrap(err).
			BuildError()
	}
	// The filename is the identity even if the file body disagrees.
	rec.Name = name
	return &rec, nil
}

// Save validates and writes the record. Overwriting an existing record of
// the same name is allowed; collision policy is the caller's concern.
func (s *Store) Save(rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return issue.WrapWithOperation(err, "encode configuration")
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.recordPath(rec.Name), data, 0o644); err != nil {
		return issue.NewErrorContext().
			WithOperation("write configuration").
			WithResource(s.recordPath(rec.Name)).
			WithSuggestion("Check that the store directory is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// Exists reports whether a record with the given name is present.
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	if _, err := os.Stat(s.recordPath(name)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, issue.WrapWithOperation(err, "stat configuration")
	}
	return true, nil
}

// Delete removes the record. If it was the active record, the active
// pointer is cleared as a side effect.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	// The pointer must be readable before removal, or a deleted active
	// record would leave a dangling pointer behind.
	active, err := s.readPointer()
	if err != nil {
		return err
	}

	if err := os.Remove(s.recordPath(name)); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Name: name}
		}
		return issue.NewErrorContext().
			WithOperation("delete configuration").
			WithResource(s.recordPath(name)).
			Wrap(err).
			BuildError()
	}

	if active == name {
		return s.ClearActive()
	}
	return nil
}

// ActiveName returns the name of the active record, or "" when none is
// active. A dangling pointer (the named record no longer exists) returns
// the stale name together with a NotFoundError so callers can report it.
func (s *Store) ActiveName() (string, error) {
	name, err := s.readPointer()
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}

	exists, err := s.Exists(name)
	if err != nil {
		return name, err
	}
	if !exists {
		return name, &NotFoundError{Name: name}
	}
	return name, nil
}

// Active loads the active record, or nil when none is active.
func (s *Store) Active() (*Record, error) {
	name, err := s.ActiveName()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return s.Get(name)
}

// SetActive points the active pointer at an existing record.
func (s *Store) SetActive(name string) error {
	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Name: name}
	}
	return s.writePointer(name)
}

// ClearActive resets the active pointer to none.
func (s *Store) ClearActive() error {
	return s.writePointer("")
}

func (s *Store) recordPath(name string) string {
	return filepath.Join(s.dir, name+recordExt)
}

func (s *Store) pointerPath() string {
	return filepath.Join(s.dir, activePointerFile)
}

func (s *Store) readPointer() (string, error) {
	data, err := os.ReadFile(s.pointerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", issue.NewErrorContext().
			WithOperation("read active pointer").
			WithResource(s.pointerPath()).
			Wrap(err).
			BuildError()
	}

	var ptr activePointer
	if err := json.Unmarshal(data, &ptr); err != nil {
		return "", issue.NewErrorContext().
			WithOperation("parse active pointer").
			WithResource(s.pointerPath()).
			WithSuggestion("Delete the file to reset the active configuration").
			Wrap(err).
			BuildError()
	}
	return ptr.Name, nil
}

func (s *Store) writePointer(name string) error {
	data, err := json.MarshalIndent(activePointer{Name: name}, "", "  ")
	if err != nil {
		return issue.WrapWithOperation(err, "encode active pointer")
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.pointerPath(), data, 0o644); err != nil {
		return issue.NewErrorContext().
			WithOperation("write active pointer").
			WithResource(s.pointerPath()).
			Wrap(err).
			BuildError()
	}
	return nil
}
