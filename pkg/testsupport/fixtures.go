// Package testsupport holds fixtures and helpers shared by the package tests.
package testsupport

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
)

// Fixture names shipped with the package.
const (
	BlogPost   = "blog-post"
	Attachment = "attachment"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// LoadRawRecord decodes a named fixture into a RawRecord.
func LoadRawRecord(name string) (datamodel.RawRecord, error) {
	data, err := fixtures.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return datamodel.RawRecord{}, fmt.Errorf("testsupport: read fixture %q: %w", name, err)
	}
	var out datamodel.RawRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return datamodel.RawRecord{}, fmt.Errorf("testsupport: decode fixture %q: %w", name, err)
	}
	return out, nil
}

// MustLoadRawRecord loads a fixture or fails the test.
func MustLoadRawRecord(t *testing.T, name string) datamodel.RawRecord {
	t.Helper()

	rec, err := LoadRawRecord(name)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return rec
}

// RawFixture returns the undecoded JSON of a fixture.
func RawFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := fixtures.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
