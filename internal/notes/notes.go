// Package notes writes captured content into the vault: standalone note
// files with a frontmatter template, and timestamped entries appended to
// the daily log.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"collector/internal/config"
)

// Result reports a completed save for UI feedback.
type Result struct {
	Filename string
	Message  string
}

// expandTemplate substitutes the date placeholders the vault templates
// use (YYYY, MM, DD, HH, mm, ss) with the given time.
func expandTemplate(template string, now time.Time) string {
	r := strings.NewReplacer(
		"YYYY", now.Format("2006"),
		"MM", now.Format("01"),
		"DD", now.Format("02"),
		"HH", now.Format("15"),
		"mm", now.Format("04"),
		"ss", now.Format("05"),
	)
	return r.Replace(template)
}

// BuildDailyNotePath joins the configured daily-note folder and filename
// format into a vault-relative path ending in .md.
func BuildDailyNotePath(s config.Settings, now time.Time) string {
	filename := expandTemplate(s.DailyNoteFormat, now)

	path := s.DailyNoteFolder
	if path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	path += filename

	if !strings.HasSuffix(path, ".md") {
		path += ".md"
	}
	return path
}

// SaveAsNote writes content as a new note file in the notes folder. The
// filename comes from the configured template; the note template, when
// set, is prepended with a blank line between it and the content.
func SaveAsNote(content string, s config.Settings) (Result, error) {
	notesPath := filepath.Join(s.VaultPath, s.NotesFolder)
	if err := os.MkdirAll(notesPath, 0755); err != nil {
		return Result{}, fmt.Errorf("create notes directory: %w", err)
	}

	filename := expandTemplate(s.NoteFilenameTemplate, time.Now())
	if !strings.HasSuffix(filename, ".md") {
		filename += ".md"
	}

	final := content
	if s.NoteTemplate != "" {
		final = s.NoteTemplate + "\n\n" + content
	}

	path := filepath.Join(notesPath, filename)
	if err := os.WriteFile(path, []byte(final), 0644); err != nil {
		return Result{}, fmt.Errorf("write note file: %w", err)
	}

	return Result{
		Filename: filename,
		Message:  "Note saved: " + filename,
	}, nil
}

// AppendToDailyNote appends text under a timestamp header to today's
// daily note. The daily note must already exist; creating it is the
// vault's (or the user's template system's) job, not ours.
func AppendToDailyNote(text string, s config.Settings) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to append")
	}

	now := time.Now()
	path := filepath.Join(s.VaultPath, BuildDailyNotePath(s, now))

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("daily note not found: %s (create the file first)", path)
	}

	header := expandTemplate(s.EntryHeader, now)
	entry := header + "\n" + text + "\n"

	needsNewline, err := missingTrailingNewline(path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open daily note: %w", err)
	}
	defer f.Close()

	if needsNewline {
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("write daily note: %w", err)
		}
	}
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("write daily note: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync daily note: %w", err)
	}
	return nil
}

// missingTrailingNewline checks whether the file's last bytes terminate a
// line, so appended entries never glue onto existing text. Accepts both
// \n and \r\n endings.
func missingTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open daily note: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat daily note: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return false, nil
	}

	n := int64(2)
	if size < 2 {
		n = size
	}
	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, size-n); err != nil {
		return false, fmt.Errorf("read daily note: %w", err)
	}

	return buf[len(buf)-1] != '\n', nil
}
