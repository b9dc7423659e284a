// SPDX-License-Identifier: MPL-2.0

package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	valid := []string{"a", "dev", "staging-eu-west", "My Config 01", strings.Repeat("x", MaxNameLength)}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("expected %q to be valid, got %v", name, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		strings.Repeat("x", MaxNameLength+1),
		"a/b",
		`a\b`,
		".",
		"..",
		"current", // reserved for the active pointer file
	}
	for _, name := range invalid {
		err := ValidateName(name)
		if err == nil {
			t.Errorf("expected %q to be rejected", name)
			continue
		}
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}
}

func TestValidateNameCountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 50 multi-byte characters are within the limit even though the byte
	// length exceeds it.
	name := strings.Repeat("ü", MaxNameLength)
	if err := ValidateName(name); err != nil {
		t.Errorf("expected 50-rune name to be valid, got %v", err)
	}
	if err := ValidateName(name + "ü"); err == nil {
		t.Error("expected 51-rune name to be rejected")
	}
}

func TestRecordJSONRoundTripPreservesExtras(t *testing.T) {
	t.Parallel()

	original := Record{
		Name:        "staging",
		Description: "staging environment",
		Extra: map[string]any{
			"endpoint": "https://staging.example.com",
			"retries":  float64(3),
			"tags":     []any{"eu", "blue"},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !got.Equal(&original) {
		t.Errorf("round trip changed the record:\noriginal: %+v\ngot:      %+v", original, got)
	}
}

func TestRecordUnmarshalSeparatesKnownFields(t *testing.T) {
	t.Parallel()

	raw := `{"name":"dev","description":"local dev","region":"eu-west-1"}`
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if rec.Name != "dev" {
		t.Errorf("expected name dev, got %q", rec.Name)
	}
	if rec.Description != "local dev" {
		t.Errorf("expected description, got %q", rec.Description)
	}
	if _, ok := rec.Extra["name"]; ok {
		t.Error("name should not leak into Extra")
	}
	if rec.Extra["region"] != "eu-west-1" {
		t.Errorf("expected region in Extra, got %v", rec.Extra)
	}
}

func TestRecordMarshalOmitsEmptyDescription(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Record{Name: "bare"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "description") {
		t.Errorf("expected description to be omitted, got %s", data)
	}
}

func TestRecordEqual(t *testing.T) {
	t.Parallel()

	a := &Record{Name: "x", Extra: map[string]any{"k": "v"}}
	b := &Record{Name: "x", Extra: map[string]any{"k": "v"}}
	if !a.Equal(b) {
		t.Error("expected equal records")
	}

	c := &Record{Name: "x", Extra: map[string]any{"k": "other"}}
	if a.Equal(c) {
		t.Error("expected differing extras to compare unequal")
	}

	var nilRec *Record
	if nilRec.Equal(a) {
		t.Error("nil record should not equal a non-nil record")
	}
}
