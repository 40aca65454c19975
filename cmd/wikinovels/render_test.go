package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wikinovels/internal/model"
)

// TestRenderCmd tests rendering a snapshot into a wiki table and a preview.
func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "noveldat.json")
	tableFile := filepath.Join(dir, "table.wiki")
	preview := filepath.Join(dir, "preview.md")

	records := []model.Record{
		{WikiTitle: "Undated"},
		{
			WikiTitle:       "Giovanni's Room",
			EnglishLabel:    model.String("Giovanni's Room"),
			PublicationDate: model.Int(1956),
			Author:          model.String("James Baldwin"),
			Country:         model.String("United States of America"),
		},
		{
			WikiTitle:       "Maurice (novel)",
			EnglishLabel:    model.String("Maurice"),
			PublicationDate: model.Int(1971),
			Author:          model.String("E. M. Forster"),
			Country:         model.String("United Kingdom"),
		},
		{
			WikiTitle:       "Dancer from the Dance",
			EnglishLabel:    model.String("Dancer from the Dance"),
			PublicationDate: model.Int(1978),
		},
	}
	if err := model.SaveSnapshotFile(snapshot, records); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	output, err := runCLI(t, "http://127.0.0.1:1", "render", "-i", snapshot, "-o", tableFile, "-m", preview)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Rendered:     2", "Wrote " + tableFile, "Wrote " + preview} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}

	data, err := os.ReadFile(tableFile) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read table: %v", err)
	}
	want := "{| class=\"wikitable sortable\"\n" +
		"|-\n" +
		"! Year !! Title !! Author !! Country !! Notes\n" +
		"|-\n" +
		"| 1956 || ''[[Giovanni's Room]]''<ref name=\"GLR\"/> || [[James Baldwin]] || USA\n" +
		"| \n" +
		"|-\n" +
		"| 1971 || ''[[Maurice (novel)|Maurice]]''<ref name=\"GLR\"/> || [[E. M. Forster]] || UK\n" +
		"| \n" +
		"|}\n"
	if string(data) != want {
		t.Errorf("unexpected table:\n%s\nwant:\n%s", data, want)
	}

	md, err := os.ReadFile(preview) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read preview: %v", err)
	}
	if !strings.Contains(string(md), "James Baldwin") {
		t.Errorf("expected the preview to list the rows, got:\n%s", md)
	}
}

// TestRenderCmd_MissingSnapshot tests the error for a missing snapshot.
func TestRenderCmd_MissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "http://127.0.0.1:1", "render",
		"-i", filepath.Join(dir, "missing.json"),
		"-o", filepath.Join(dir, "table.wiki"),
	)
	if err == nil {
		t.Fatal("expected an error for a missing snapshot")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "table.wiki")); !os.IsNotExist(statErr) {
		t.Error("expected no table to be written")
	}
}

// TestRenderCmd_UnknownColumn tests that a bad column list is reported.
func TestRenderCmd_UnknownColumn(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("table:\n  columns: [year, isbn]\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	snapshot := filepath.Join(dir, "noveldat.json")
	if err := model.SaveSnapshotFile(snapshot, nil); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"render", "--config", cfgPath, "-i", snapshot, "-o", filepath.Join(dir, "table.wiki")})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown column") {
		t.Errorf("expected unknown column error, got %v", err)
	}
}
