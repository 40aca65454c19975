package render

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wikinovels/internal/model"
)

// sampleRecords returns a small snapshot with included and excluded records.
func sampleRecords() []model.Record {
	return []model.Record{
		{WikiTitle: "Undated"},
		{
			WikiTitle:       "The Picture of Dorian Gray",
			EnglishLabel:    model.String("The Picture of Dorian Gray"),
			PublicationDate: model.Int(1890),
			Author:          model.String("Oscar Wilde"),
			Country:         model.String("United Kingdom"),
		},
		{
			WikiTitle:       "Bertram Cope's Year",
			EnglishLabel:    model.String("Bertram Cope's Year"),
			PublicationDate: model.Int(1919),
			Author:          model.String("Henry Blake Fuller"),
			Country:         model.String("United States of America"),
		},
		{
			WikiTitle:       "Death in Venice",
			EnglishLabel:    model.String("Death in Venice"),
			PublicationDate: model.Int(1912),
			Author:          model.String("Thomas Mann"),
		},
		novel("Fanny Hill", "Fanny Hill", 1748),
		novel("Dancer from the Dance", "Dancer from the Dance", 1978),
	}
}

// TestWikiWriter tests the wiki output.
func TestWikiWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewWikiWriter(&buf, newDefaultTable(t)).Write(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "{| class=\"wikitable sortable\"\n|-\n! Year !! Title") {
		t.Errorf("unexpected start of output: %q", output[:40])
	}
	if !strings.HasSuffix(output, "\n|}\n") {
		t.Errorf("expected closing markup, got: %q", output[len(output)-10:])
	}
	if got := strings.Count(output, "|-\n| "); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
	for _, excluded := range []string{"Fanny Hill", "Dancer from the Dance", "Undated"} {
		if strings.Contains(output, excluded) {
			t.Errorf("expected %q to be excluded", excluded)
		}
	}
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// TestWikiWriter_OutputError tests that write errors are returned.
func TestWikiWriter_OutputError(t *testing.T) {
	t.Parallel()

	if _, err := NewWikiWriter(failingWriter{}, newDefaultTable(t)).Write(nil); err == nil {
		t.Error("expected an error from the output")
	}
}

// TestWriteFile tests atomic file output.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("writes the table", func(t *testing.T) {
		t.Parallel()

		table := newDefaultTable(t)
		path := filepath.Join(t.TempDir(), "out", "table.wiki")
		err := WriteFile(path, sampleRecords(), func(w io.Writer) Writer {
			return NewWikiWriter(w, table)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "''[[Bertram Cope's Year]]''<ref name=\"GLBTQ-Am-2\"/>") {
			t.Errorf("unexpected output:\n%s", data)
		}
	})

	t.Run("failed render leaves no file", func(t *testing.T) {
		t.Parallel()

		table := newDefaultTable(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "table.wiki")
		records := []model.Record{{PublicationDate: model.Int(1900)}}

		err := WriteFile(path, records, func(w io.Writer) Writer {
			return NewWikiWriter(w, table)
		})
		if !errors.Is(err, model.ErrMissingWikiTitle) {
			t.Fatalf("expected ErrMissingWikiTitle, got %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected an empty directory, found %d entries", len(entries))
		}
	})
}

// TestMarkdownWriter tests the markdown preview.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes rows and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, newDefaultTable(t)).Write(sampleRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Novels",
			"Bertram Cope's Year",
			"Henry Blake Fuller",
			"Luchino Visconti",
			"```mermaid",
			"Works by Country",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		for _, unwanted := range []string{"[[", "<ref", "''", "Fanny Hill"} {
			if strings.Contains(output, unwanted) {
				t.Errorf("expected output not to contain %q", unwanted)
			}
		}
	})

	t.Run("notes an empty table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, newDefaultTable(t)).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No record is eligible") {
			t.Errorf("expected an empty table note, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "mermaid") {
			t.Error("expected no chart for an empty table")
		}
	})
}

// TestPlainText tests the wiki markup simplification.
func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"''[[Foo]]''", "Foo"},
		{"''[[Bar (novel)|Bar]]''<ref name=\"GLR\"/>", "Bar"},
		{"see [[Death in Venice (film)|1971 film]] by [[Luchino Visconti]]", "see 1971 film by Luchino Visconti"},
		{"text<ref>https://example.com</ref>.", "text."},
		{"a | b", `a \| b`},
	}
	for _, tt := range tests {
		if got := plainText(tt.in); got != tt.want {
			t.Errorf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSimpleWriter tests the plain-text summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("counts records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, DefaultTables()).Write(sampleRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Records:      6",
			"Rendered:     3",
			"No year:      1",
			"After cutoff: 1",
			"Blacklisted:  1",
			"UK",
			"USA",
			"Unknown",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Excluded:") {
			t.Error("expected excluded records to be listed only in verbose mode")
		}
	})

	t.Run("verbose lists excluded records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, DefaultTables(), WithVerbose(true))
		if _, err := w.Write(sampleRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[blacklisted] Fanny Hill") {
			t.Errorf("expected the blacklisted record, got:\n%s", buf.String())
		}
	})
}

// TestSummarize tests the country ordering of the summary.
func TestSummarize(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{WikiTitle: "A", PublicationDate: model.Int(1900), Country: model.String("France")},
		{WikiTitle: "B", PublicationDate: model.Int(1900), Country: model.String("United Kingdom")},
		{WikiTitle: "C", PublicationDate: model.Int(1900), Country: model.String("United Kingdom")},
		{WikiTitle: "D", PublicationDate: model.Int(1900), Country: model.String("Brazil")},
	}

	s := Summarize(DefaultTables(), records)
	want := []CountryCount{{"UK", 2}, {"Brazil", 1}, {"France", 1}}
	if len(s.Countries) != len(want) {
		t.Fatalf("expected %d countries, got %+v", len(want), s.Countries)
	}
	for i := range want {
		if s.Countries[i] != want[i] {
			t.Errorf("country %d = %+v, want %+v", i, s.Countries[i], want[i])
		}
	}
}
