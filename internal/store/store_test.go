// SPDX-License-Identifier: MPL-2.0

package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stencil-cli/internal/config"
	"stencil-cli/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "configs"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func TestOpenUsesAppDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, tmpDir))
	config.SetAppDirOverride(filepath.Join(tmpDir, ".stencil"))
	t.Cleanup(config.Reset)

	s, err := Open()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	want := filepath.Join(tmpDir, ".stencil", "configs")
	if s.Dir() != want {
		t.Errorf("expected store dir %s, got %s", want, s.Dir())
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected store directory to be created: %v", err)
	}
}

func TestSaveThenGetReturnsEqualRecord(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	rec := &Record{
		Name:        "staging",
		Description: "staging environment",
		Extra:       map[string]any{"endpoint": "https://staging.example.com"},
	}
	if err := s.Save(rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Get("staging")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !got.Equal(rec) {
		t.Errorf("expected equal record:\nsaved: %+v\ngot:   %+v", rec, got)
	}
}

func TestSaveRejectsInvalidName(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: ""}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName for empty name, got %v", err)
	}
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "dev", Description: "first"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Save(&Record{Name: "dev", Description: "second"}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := s.Get("dev")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Description != "second" {
		t.Errorf("expected overwritten description, got %q", got.Description)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Errorf("expected NotFoundError carrying the name, got %v", err)
	}
}

func TestListSortsAndExcludesPointerFile(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(&Record{Name: name}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := s.SetActive("mid"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	// A stray non-JSON file must not show up either.
	if err := os.WriteFile(filepath.Join(s.Dir(), "README.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	names, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}
}

func TestSetActiveAndActiveName(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "prod"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SetActive("prod"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	name, err := s.ActiveName()
	if err != nil {
		t.Fatalf("active name failed: %v", err)
	}
	if name != "prod" {
		t.Errorf("expected prod, got %q", name)
	}
}

func TestSetActiveRequiresExistingRecord(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.SetActive("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveNameNonePresent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	name, err := s.ActiveName()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" {
		t.Errorf("expected no active record, got %q", name)
	}
}

func TestActiveNameDanglingPointer(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "doomed"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SetActive("doomed"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	// Remove the record file out from under the pointer.
	if err := os.Remove(filepath.Join(s.Dir(), "doomed.json")); err != nil {
		t.Fatalf("failed to remove record file: %v", err)
	}

	name, err := s.ActiveName()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling pointer, got %v", err)
	}
	if name != "doomed" {
		t.Errorf("expected stale name to be reported, got %q", name)
	}
}

func TestDeleteClearsActivePointer(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "dev"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SetActive("dev"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	if err := s.Delete("dev"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	name, err := s.ActiveName()
	if err != nil {
		t.Fatalf("active name failed: %v", err)
	}
	if name != "" {
		t.Errorf("expected cleared pointer after deleting active record, got %q", name)
	}
}

func TestDeleteLeavesOtherActivePointerAlone(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	for _, name := range []string{"keep", "drop"} {
		if err := s.Save(&Record{Name: name}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := s.SetActive("keep"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	if err := s.Delete("drop"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	name, err := s.ActiveName()
	if err != nil {
		t.Fatalf("active name failed: %v", err)
	}
	if name != "keep" {
		t.Errorf("expected pointer untouched, got %q", name)
	}
}

func TestSaveRejectsReservedPointerName(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "prod"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SetActive("prod"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	// "current" is the pointer file's base name; saving it would overwrite
	// current.json and hijack the active pointer.
	err := s.Save(&Record{Name: "current", Description: "not a record"})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for reserved name, got %v", err)
	}

	name, err := s.ActiveName()
	if err != nil {
		t.Fatalf("active name failed: %v", err)
	}
	if name != "prod" {
		t.Errorf("expected pointer untouched, got %q", name)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 1 || names[0] != "prod" {
		t.Errorf("expected only prod in listing, got %v", names)
	}
}

func TestDeleteCorruptPointerFileSurfacesError(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "dev"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	testutil.MustWriteFile(t, filepath.Join(s.Dir(), "current.json"), []byte("{not json"))

	if err := s.Delete("dev"); err == nil {
		t.Fatal("expected error when the pointer file is unreadable")
	}

	// The record must survive an aborted delete.
	exists, err := s.Exists("dev")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Error("expected record to remain after aborted delete")
	}
}

func TestDeleteNotFound(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveLoadsRecord(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Save(&Record{Name: "dev", Description: "local"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.SetActive("dev"); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	rec, err := s.Active()
	if err != nil {
		t.Fatalf("active failed: %v", err)
	}
	if rec == nil || rec.Description != "local" {
		t.Errorf("expected active record, got %+v", rec)
	}
}

func TestActiveNoneReturnsNil(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	rec, err := s.Active()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestGetCorruptRecordFile(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	testutil.MustWriteFile(t, filepath.Join(s.Dir(), "broken.json"), []byte("{not json"))

	if _, err := s.Get("broken"); err == nil {
		t.Fatal("expected error for corrupt record file")
	}
}
