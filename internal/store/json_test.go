package store

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSONStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count = %d, want 0 on fresh store", n)
	}
	if seen, _ := s.HasSeen("abc"); seen {
		t.Error("HasSeen(abc) = true on fresh store")
	}

	if err := s.MarkSeen("abc"); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkSeen("def"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and verify persistence.
	s2, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if seen, _ := s2.HasSeen("abc"); !seen {
		t.Error("HasSeen(abc) = false after reopen")
	}
	if n, _ := s2.Count(); n != 2 {
		t.Errorf("Count = %d, want 2 after reopen", n)
	}
}

func TestJSONStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	s.MarkSeen("bbb")
	s.MarkSeen("aaa")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Seen []string `json:"seen"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if len(doc.Seen) != 2 || doc.Seen[0] != "aaa" || doc.Seen[1] != "bbb" {
		t.Errorf("Seen = %v, want sorted [aaa bbb]", doc.Seen)
	}
}

func TestJSONStore_LegacyBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte(`["one","two"]`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if seen, _ := s.HasSeen("one"); !seen {
		t.Error("HasSeen(one) = false for legacy bare-array file")
	}
	if n, _ := s.Count(); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestJSONStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatalf("corrupt file should not fail open: %v", err)
	}
	defer s.Close()

	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count = %d, want 0 for corrupt file", n)
	}
}

func TestJSONStore_NoWriteWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Close without writes should not create the file")
	}
}

func TestJSONStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "seen.json")

	s, err := NewJSONStore(path, discardLogger())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	s.MarkSeen("x")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file at %s: %v", path, err)
	}
}
