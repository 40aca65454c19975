package model

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleRecords returns records covering present, absent and empty values.
func sampleRecords() []Record {
	return []Record{
		{
			WikiTitle: "The Sins of the Cities of the Plain",
			Genre:     []*string{},
		},
		{
			Author:          String("Oscar Wilde"),
			Publisher:       String("Lippincott's Monthly Magazine"),
			Country:         String("United Kingdom"),
			Language:        String("English"),
			PublicationDate: Int(1890),
			Title:           String("The Picture of Dorian Gray"),
			Genre:           []*string{String("gothic novel"), nil, String("philosophical fiction")},
			WikiTitle:       "The Picture of Dorian Gray",
			EnglishLabel:    String("The Picture of Dorian Gray"),
		},
	}
}

// TestSnapshotRoundTrip tests that writing and reading a snapshot preserves records.
func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("records survive a round trip including nulls", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		want := sampleRecords()
		if err := WriteSnapshot(&buf, want); err != nil {
			t.Fatalf("failed to write snapshot: %v", err)
		}

		got, err := ReadSnapshot(&buf)
		if err != nil {
			t.Fatalf("failed to read snapshot: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("absent fields are written as null", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteSnapshot(&buf, sampleRecords()[:1]); err != nil {
			t.Fatalf("failed to write snapshot: %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			`"author": null`,
			`"publication date": null`,
			`"country of origin": null`,
			`"en_label": null`,
			`"genre": []`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %s, got:\n%s", want, out)
			}
		}
	})

	t.Run("nil slice is written as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteSnapshot(&buf, nil); err != nil {
			t.Fatalf("failed to write snapshot: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "[]" {
			t.Errorf("expected '[]', got %q", got)
		}
	})

	t.Run("snapshot is indented", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteSnapshot(&buf, sampleRecords()); err != nil {
			t.Fatalf("failed to write snapshot: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  {\n    \"author\"") {
			t.Errorf("expected two-space indentation, got:\n%s", buf.String())
		}
	})
}

// TestReadSnapshot tests decoding errors.
func TestReadSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("record without wiki title is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ReadSnapshot(strings.NewReader(`[{"author": "A"}]`))
		if !errors.Is(err, ErrMissingWikiTitle) {
			t.Errorf("expected ErrMissingWikiTitle, got %v", err)
		}
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := ReadSnapshot(strings.NewReader(`{`)); err == nil {
			t.Error("expected error for malformed json")
		}
	})

	t.Run("snapshot written by the original scraper is accepted", func(t *testing.T) {
		t.Parallel()

		input := `[
  {
    "author": "E. M. Forster",
    "publisher": null,
    "country of origin": "United Kingdom",
    "language": "English",
    "publication date": 1971,
    "title": "Maurice",
    "genre": ["LGBT literature", null],
    "wiki_title": "Maurice (novel)",
    "en_label": "Maurice"
  }
]`
		got, err := ReadSnapshot(strings.NewReader(input))
		if err != nil {
			t.Fatalf("failed to read snapshot: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %d", len(got))
		}
		if got[0].Publisher != nil {
			t.Errorf("expected nil publisher, got %q", *got[0].Publisher)
		}
		if len(got[0].Genre) != 2 || got[0].Genre[1] != nil {
			t.Errorf("expected two genres with a null entry, got %v", got[0].Genre)
		}
	})
}

// TestSnapshotFile tests saving and loading snapshot files.
func TestSnapshotFile(t *testing.T) {
	t.Parallel()

	t.Run("save then load", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "noveldat.json")
		if err := SaveSnapshotFile(path, sampleRecords()); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}

		got, err := LoadSnapshotFile(path)
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if diff := cmp.Diff(sampleRecords(), got); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no temporary files are left behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "noveldat.json")
		if err := SaveSnapshotFile(path, sampleRecords()); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the snapshot in %s, got %d entries", dir, len(entries))
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		t.Parallel()

		_, err := LoadSnapshotFile(filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}
