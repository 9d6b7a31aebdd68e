package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"collector/internal/shortcut"
)

// ErrInvalid marks settings rejected by Validate. Callers surface the
// wrapped message to the UI verbatim.
var ErrInvalid = errors.New("invalid settings")

// Settings is the single persisted configuration record. It is treated as
// an immutable snapshot: consumers receive copies and a changed record is
// replaced wholesale via Save.
type Settings struct {
	VaultName      string `json:"vault_name"`
	VaultPath      string `json:"vault_path"`
	ScreenshotPath string `json:"screenshot_path"`

	EdgeSide             string `json:"edge_side"`
	EdgeDetectionEnabled bool   `json:"edge_detection_enabled"`

	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	BorderRadius       int    `json:"border_radius"`
	BackgroundColor    string `json:"background_color"`
	TextColor          string `json:"text_color"`
	FontFamily         string `json:"font_family"`
	FontSize           int    `json:"font_size"`
	WindowTransparency int    `json:"window_transparency"`
	WindowBlur         int    `json:"window_blur"`
	WindowSaturation   int    `json:"window_saturation"`
	WindowBrightness   int    `json:"window_brightness"`

	NotesFolder          string `json:"notes_folder"`
	NoteFilenameTemplate string `json:"note_filename_template"`
	NoteTemplate         string `json:"note_template"`
	DailyNoteFolder      string `json:"daily_note_folder"`
	DailyNoteFormat      string `json:"daily_note_format"`
	// DailyNotePath is the pre-split form of folder+format. Load migrates it
	// and clears the field.
	DailyNotePath string `json:"daily_note_path,omitempty"`
	EntryHeader   string `json:"entry_header"`

	ImageFolder       string `json:"image_folder"`
	ImageFilename     string `json:"image_filename"`
	DefaultImageWidth string `json:"default_image_width"`
	CompressionMaxKB  int    `json:"compression_max_kb"`

	GlobalShortcut      string `json:"global_shortcut"`
	CaptureTextShortcut string `json:"capture_text_shortcut"`
	SaveToDailyShortcut string `json:"save_to_daily_shortcut"`
	SaveAsNoteShortcut  string `json:"save_as_note_shortcut"`

	AutostartEnabled bool   `json:"autostart_enabled"`
	LogLevel         string `json:"log_level,omitempty"`
}

// Defaults returns the settings written on first run.
func Defaults() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		VaultName:      "Vault",
		VaultPath:      filepath.Join(home, "Vault"),
		ScreenshotPath: filepath.Join(home, "Vault", "Grafiken", "Screenshots"),

		EdgeSide:             "right",
		EdgeDetectionEnabled: true,

		WindowWidth:  330,
		WindowHeight: 600,

		BorderRadius:       12,
		BackgroundColor:    "#1e1e2e",
		TextColor:          "#ffffff",
		FontFamily:         "-apple-system, BlinkMacSystemFont, SF Pro Display",
		FontSize:           15,
		WindowTransparency: 55,
		WindowBlur:         80,
		WindowSaturation:   200,
		WindowBrightness:   0,

		NotesFolder:          "Notes",
		NoteFilenameTemplate: "note-YYYY-MM-DD-HHmmss",
		NoteTemplate:         "---\ncreated: <% tp.date.now(\"YYYY-MM-DD hh:mm\") %>\nmodified: \ndaily: \"[[<% tp.date.now(\"YYYY-MM-DD\") %>]]\"\ntags: inbox\ntype: inbox\n---",
		DailyNoteFolder:      "Journal/",
		DailyNoteFormat:      "YYYY-MM-DD",
		EntryHeader:          "#### HH:mm",

		ImageFolder:       "assets/screenshots",
		ImageFilename:     "screenshot-YYYY-MM-DD-HHmmss",
		DefaultImageWidth: "600",
		CompressionMaxKB:  200,

		GlobalShortcut:      "Cmd+Shift+N",
		CaptureTextShortcut: "Cmd+Shift+C",
		SaveToDailyShortcut: "Cmd+Enter",
		SaveAsNoteShortcut:  "Cmd+Shift+Enter",
	}
}

// Path returns the settings file location. COLLECTOR_CONFIG_DIR overrides
// the platform default, which is what the tests and portable installs use.
func Path() string {
	if dir := os.Getenv("COLLECTOR_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.json")
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "collector", "config.json")
}

// Load reads settings from disk. A missing file yields defaults (written
// back); an unreadable or corrupt file is replaced with defaults rather
// than failing startup.
func Load() (Settings, error) {
	// Optional .env next to the binary or cwd for overrides such as
	// COLLECTOR_CONFIG_DIR and COLLECTOR_LOG_LEVEL.
	godotenv.Load()
	if exe, err := os.Executable(); err == nil {
		godotenv.Load(filepath.Join(filepath.Dir(exe), ".env"))
	}

	path := Path()

	data, err := os.ReadFile(path)
	if err != nil {
		s := Defaults()
		if err := s.Save(); err != nil {
			return s, err
		}
		return s, nil
	}

	s := Defaults()
	if err := json.Unmarshal(data, &s); err != nil {
		s = Defaults()
		if err := s.Save(); err != nil {
			return s, err
		}
		return s, nil
	}

	if s.migrateDailyNotePath() {
		s.Save()
	}

	if lvl := os.Getenv("COLLECTOR_LOG_LEVEL"); lvl != "" {
		s.LogLevel = lvl
	}

	return s, nil
}

// migrateDailyNotePath splits the legacy combined path into folder and
// format. Reports whether anything changed.
func (s *Settings) migrateDailyNotePath() bool {
	if s.DailyNotePath == "" || s.DailyNoteFolder != "" {
		if s.DailyNotePath != "" {
			s.DailyNotePath = ""
			return true
		}
		return false
	}

	path := s.DailyNotePath
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		s.DailyNoteFolder = path[:idx+1]
		s.DailyNoteFormat = strings.TrimSuffix(path[idx+1:], ".md")
	} else {
		s.DailyNoteFormat = strings.TrimSuffix(path, ".md")
	}
	s.DailyNotePath = ""
	return true
}

// Save writes the settings to disk and verifies the file landed.
func (s Settings) Save() error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file missing after write: %w", err)
	}

	return nil
}

// Validate rejects out-of-range values before anything is persisted.
// Errors wrap ErrInvalid and carry a message fit for the UI.
func (s Settings) Validate() error {
	if s.EdgeSide != "left" && s.EdgeSide != "right" {
		return invalidf("edge_side must be 'left' or 'right'")
	}
	if s.WindowWidth < 200 || s.WindowWidth > 800 {
		return invalidf("window_width must be between 200 and 800")
	}
	if s.WindowHeight < 80 || s.WindowHeight > 1200 {
		return invalidf("window_height must be between 80 and 1200")
	}
	if s.BorderRadius < 0 || s.BorderRadius > 30 {
		return invalidf("border_radius must be between 0 and 30")
	}
	if s.FontSize < 10 || s.FontSize > 24 {
		return invalidf("font_size must be between 10 and 24")
	}
	if s.CompressionMaxKB < 50 || s.CompressionMaxKB > 2000 {
		return invalidf("compression_max_kb must be between 50 and 2000")
	}
	if s.VaultName == "" || strings.TrimSpace(s.VaultName) == "" {
		return invalidf("vault_name cannot be empty")
	}
	if s.WindowTransparency < 0 || s.WindowTransparency > 100 {
		return invalidf("window_transparency must be between 0 and 100")
	}
	if s.WindowBlur < 0 || s.WindowBlur > 200 {
		return invalidf("window_blur must be between 0 and 200")
	}
	if s.WindowSaturation < 0 || s.WindowSaturation > 300 {
		return invalidf("window_saturation must be between 0 and 300")
	}
	if s.WindowBrightness < -100 || s.WindowBrightness > 100 {
		return invalidf("window_brightness must be between -100 and 100")
	}

	if w := strings.TrimSpace(s.DefaultImageWidth); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n <= 0 {
			return invalidf("default_image_width must be empty or a positive number")
		}
	}

	for _, sc := range []struct {
		name, combo string
	}{
		{"global_shortcut", s.GlobalShortcut},
		{"capture_text_shortcut", s.CaptureTextShortcut},
		{"save_as_note_shortcut", s.SaveAsNoteShortcut},
	} {
		if strings.TrimSpace(sc.combo) == "" {
			continue
		}
		if err := shortcut.Validate(sc.combo); err != nil {
			return invalidf("%s: %v", sc.name, err)
		}
	}

	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
