package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"collector/internal/config"
)

var testTime = time.Date(2026, 3, 7, 14, 5, 9, 0, time.Local)

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"YYYY-MM-DD", "2026-03-07"},
		{"YYYY-MM-DD HH-mm-ss", "2026-03-07 14-05-09"},
		{"#### HH:mm", "#### 14:05"},
		{"Journal/YYYY/MM", "Journal/2026/03"},
		{"no placeholders", "no placeholders"},
	}
	for _, tt := range tests {
		if got := expandTemplate(tt.in, testTime); got != tt.want {
			t.Errorf("expandTemplate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildDailyNotePath(t *testing.T) {
	tests := []struct {
		name   string
		folder string
		format string
		want   string
	}{
		{"folder with trailing slash", "Journal/", "YYYY-MM-DD", "Journal/2026-03-07.md"},
		{"folder without trailing slash", "Journal", "YYYY-MM-DD", "Journal/2026-03-07.md"},
		{"empty folder", "", "YYYY-MM-DD", "2026-03-07.md"},
		{"format already has extension", "Journal/", "YYYY-MM-DD.md", "Journal/2026-03-07.md"},
		{"nested folder", "Notes/Daily/", "YYYY-MM-DD", "Notes/Daily/2026-03-07.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Settings{DailyNoteFolder: tt.folder, DailyNoteFormat: tt.format}
			if got := BuildDailyNotePath(s, testTime); got != tt.want {
				t.Errorf("BuildDailyNotePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testSettings(t *testing.T) config.Settings {
	t.Helper()
	s := config.Defaults()
	s.VaultPath = t.TempDir()
	return s
}

func TestSaveAsNote(t *testing.T) {
	s := testSettings(t)
	s.NoteTemplate = "---\ntags: [capture]\n---"

	res, err := SaveAsNote("captured text", s)
	if err != nil {
		t.Fatalf("SaveAsNote: %v", err)
	}
	if !strings.HasSuffix(res.Filename, ".md") {
		t.Errorf("filename %q missing .md extension", res.Filename)
	}

	data, err := os.ReadFile(filepath.Join(s.VaultPath, s.NotesFolder, res.Filename))
	if err != nil {
		t.Fatalf("read note back: %v", err)
	}
	want := "---\ntags: [capture]\n---\n\ncaptured text"
	if string(data) != want {
		t.Errorf("note content = %q, want %q", data, want)
	}
}

func TestSaveAsNoteWithoutTemplate(t *testing.T) {
	s := testSettings(t)
	s.NoteTemplate = ""

	res, err := SaveAsNote("just the text", s)
	if err != nil {
		t.Fatalf("SaveAsNote: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(s.VaultPath, s.NotesFolder, res.Filename))
	if err != nil {
		t.Fatalf("read note back: %v", err)
	}
	if string(data) != "just the text" {
		t.Errorf("note content = %q, want the raw text", data)
	}
}

func createDailyNote(t *testing.T, s config.Settings, content string) string {
	t.Helper()
	rel := BuildDailyNotePath(s, time.Now())
	path := filepath.Join(s.VaultPath, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAppendToDailyNote(t *testing.T) {
	s := testSettings(t)
	path := createDailyNote(t, s, "# Saturday\n\nexisting entry\n")

	if err := AppendToDailyNote("new thought", s); err != nil {
		t.Fatalf("AppendToDailyNote: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "# Saturday\n\nexisting entry\n") {
		t.Errorf("existing content damaged: %q", got)
	}
	if !strings.Contains(got, "\nnew thought\n") {
		t.Errorf("appended entry missing from %q", got)
	}
	if !strings.Contains(got, "#### ") {
		t.Errorf("entry header missing from %q", got)
	}
}

func TestAppendInsertsNewlineWhenFileLacksOne(t *testing.T) {
	s := testSettings(t)
	createDailyNote(t, s, "last line without newline")

	if err := AppendToDailyNote("entry", s); err != nil {
		t.Fatalf("AppendToDailyNote: %v", err)
	}

	rel := BuildDailyNotePath(s, time.Now())
	data, err := os.ReadFile(filepath.Join(s.VaultPath, rel))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "last line without newline\n") {
		t.Errorf("separator newline missing: %q", data)
	}
	if strings.Contains(string(data), "newline#") {
		t.Errorf("entry glued onto existing text: %q", data)
	}
}

func TestAppendToMissingDailyNoteFails(t *testing.T) {
	s := testSettings(t)
	err := AppendToDailyNote("entry", s)
	if err == nil {
		t.Fatal("expected error when the daily note does not exist")
	}
	if !strings.Contains(err.Error(), "daily note not found") {
		t.Errorf("error = %v, want a not-found message", err)
	}
}

func TestAppendRejectsBlankText(t *testing.T) {
	s := testSettings(t)
	createDailyNote(t, s, "content\n")
	if err := AppendToDailyNote("   \n", s); err == nil {
		t.Fatal("expected error for blank text")
	}
}
