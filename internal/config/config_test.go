package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COLLECTOR_CONFIG_DIR", dir)
	return dir
}

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	dir := useTempConfigDir(t)

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.EdgeSide != "right" || s.WindowWidth != 330 || s.WindowHeight != 600 {
		t.Errorf("unexpected defaults: side=%q w=%d h=%d", s.EdgeSide, s.WindowWidth, s.WindowHeight)
	}
	if s.CaptureTextShortcut != "Cmd+Shift+C" {
		t.Errorf("capture text shortcut default = %q", s.CaptureTextShortcut)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("defaults were not persisted: %v", err)
	}
}

func TestLoadCorruptFileReplacedWithDefaults(t *testing.T) {
	dir := useTempConfigDir(t)
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.EdgeSide != "right" {
		t.Errorf("corrupt file should yield defaults, got side %q", s.EdgeSide)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk Settings
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Errorf("rewritten config is not valid JSON: %v", err)
	}
}

func TestLoadPreservesUserValues(t *testing.T) {
	useTempConfigDir(t)

	s := Defaults()
	s.EdgeSide = "left"
	s.WindowWidth = 400
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.EdgeSide != "left" || got.WindowWidth != 400 {
		t.Errorf("loaded side=%q w=%d, want left and 400", got.EdgeSide, got.WindowWidth)
	}
}

func TestLoadFillsMissingFieldsFromDefaults(t *testing.T) {
	dir := useTempConfigDir(t)
	// A truncated record from an older version: only two fields present.
	partial := `{"edge_side": "left", "window_width": 420}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.EdgeSide != "left" || s.WindowWidth != 420 {
		t.Errorf("explicit values lost: side=%q w=%d", s.EdgeSide, s.WindowWidth)
	}
	if s.WindowHeight != 600 || s.DailyNoteFormat != "YYYY-MM-DD" {
		t.Errorf("missing fields not defaulted: h=%d format=%q", s.WindowHeight, s.DailyNoteFormat)
	}
}

func TestMigrateDailyNotePath(t *testing.T) {
	dir := useTempConfigDir(t)
	legacy := `{"daily_note_folder": "", "daily_note_path": "Tagebuch/YYYY-MM-DD.md"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DailyNoteFolder != "Tagebuch/" {
		t.Errorf("daily_note_folder = %q, want Tagebuch/", s.DailyNoteFolder)
	}
	if s.DailyNoteFormat != "YYYY-MM-DD" {
		t.Errorf("daily_note_format = %q, want YYYY-MM-DD", s.DailyNoteFormat)
	}
	if s.DailyNotePath != "" {
		t.Errorf("daily_note_path = %q, want cleared", s.DailyNotePath)
	}

	// The migrated form must be persisted so the legacy field is gone.
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Tagebuch/YYYY-MM-DD.md") {
		t.Error("legacy daily_note_path still present on disk")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		ok     bool
	}{
		{"defaults", func(s *Settings) {}, true},
		{"left edge", func(s *Settings) { s.EdgeSide = "left" }, true},
		{"bad edge side", func(s *Settings) { s.EdgeSide = "top" }, false},
		{"width too small", func(s *Settings) { s.WindowWidth = 100 }, false},
		{"width too large", func(s *Settings) { s.WindowWidth = 900 }, false},
		{"height too small", func(s *Settings) { s.WindowHeight = 50 }, false},
		{"border radius negative", func(s *Settings) { s.BorderRadius = -1 }, false},
		{"font size out of range", func(s *Settings) { s.FontSize = 36 }, false},
		{"compression too low", func(s *Settings) { s.CompressionMaxKB = 10 }, false},
		{"vault name blank", func(s *Settings) { s.VaultName = "   " }, false},
		{"transparency out of range", func(s *Settings) { s.WindowTransparency = 150 }, false},
		{"brightness lower bound", func(s *Settings) { s.WindowBrightness = -100 }, true},
		{"image width not a number", func(s *Settings) { s.DefaultImageWidth = "wide" }, false},
		{"image width empty", func(s *Settings) { s.DefaultImageWidth = "" }, true},
		{"invalid shortcut", func(s *Settings) { s.CaptureTextShortcut = "NotAShortcut" }, false},
		{"shortcut disabled", func(s *Settings) { s.CaptureTextShortcut = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Error("Validate() = nil, want error")
				} else if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() = %v, want it to wrap ErrInvalid", err)
				}
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	s := Defaults()
	s.NotesFolder = "Inbox"
	s.CaptureTextShortcut = "Cmd+Shift+X"
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.NotesFolder != "Inbox" || got.CaptureTextShortcut != "Cmd+Shift+X" {
		t.Errorf("round trip lost values: folder=%q shortcut=%q", got.NotesFolder, got.CaptureTextShortcut)
	}
}
