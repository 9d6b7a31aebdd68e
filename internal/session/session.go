// Package session reacts to trigger and shortcut events: it shows and
// hides the capture surface, pulls the foreground selection in, and
// forwards content to the note, daily-log and image writers.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"collector/internal/capture"
	"collector/internal/config"
	"collector/internal/edge"
	"collector/internal/image"
	"collector/internal/notes"
	"collector/internal/screen"
	"collector/internal/shortcut"
)

// Surface is the capture window as seen from here: something that can be
// placed, shown and hidden. The real one lives in the frontend behind the
// bridge.
type Surface interface {
	Position(x, y, width, height int)
	Show()
	Hide()
}

// Emitter broadcasts events to every live window.
type Emitter interface {
	Emit(event string, payload any)
}

// Events emitted to windows.
const (
	EventShowCapture       = "show_capture"
	EventSettingsChanged   = "settings_changed"
	EventInsertCaptureText = "insert_capture_text"
	EventSaveAsNote        = "save_as_note"
)

// insertTextDelay lets show_capture listeners (which clear prior content)
// run before the captured text arrives.
const insertTextDelay = 30 * time.Millisecond

// Config wires a Coordinator.
type Config struct {
	Settings  config.Settings
	Detector  *edge.Detector
	Sequencer *capture.Sequencer
	Probe     screen.Probe
	Surface   Surface
	Emitter   Emitter
	Logger    zerolog.Logger

	// Shortcut managers, one per role.
	OpenManager    *shortcut.Manager
	CaptureManager *shortcut.Manager
	SaveManager    *shortcut.Manager

	// Notify shows a desktop notification; nil disables notifications.
	Notify func(title, body string)

	// InsertDelay overrides insertTextDelay; tests shrink it.
	InsertDelay time.Duration
}

// Coordinator is the session layer. The settings snapshot behind its
// RWMutex is the single point of truth the UI commands and shortcuts
// read from.
type Coordinator struct {
	mu       sync.RWMutex
	settings config.Settings

	detector  *edge.Detector
	sequencer *capture.Sequencer
	probe     screen.Probe
	surface   Surface
	emitter   Emitter
	log       zerolog.Logger

	openMgr    *shortcut.Manager
	captureMgr *shortcut.Manager
	saveMgr    *shortcut.Manager

	notify      func(title, body string)
	insertDelay time.Duration
}

// New builds a coordinator. Call BindShortcuts afterwards to arm the
// hotkeys from the initial settings.
func New(cfg Config) *Coordinator {
	delay := cfg.InsertDelay
	if delay <= 0 {
		delay = insertTextDelay
	}
	return &Coordinator{
		settings:    cfg.Settings,
		detector:    cfg.Detector,
		sequencer:   cfg.Sequencer,
		probe:       cfg.Probe,
		surface:     cfg.Surface,
		emitter:     cfg.Emitter,
		log:         cfg.Logger,
		openMgr:     cfg.OpenManager,
		captureMgr:  cfg.CaptureManager,
		saveMgr:     cfg.SaveManager,
		notify:      cfg.Notify,
		insertDelay: delay,
	}
}

// Settings returns the current snapshot.
func (c *Coordinator) Settings() config.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// EdgeConfig derives the trigger configuration from settings.
func EdgeConfig(s config.Settings) edge.Config {
	return edge.Config{
		Side:         s.EdgeSide,
		Enabled:      s.EdgeDetectionEnabled,
		WindowWidth:  s.WindowWidth,
		WindowHeight: s.WindowHeight,
	}
}

// BindShortcuts (re)binds all three hotkey roles from the given settings.
// A failed bind is logged and skipped; the other roles are independent
// and the app stays usable with partial shortcut coverage.
func (c *Coordinator) BindShortcuts(s config.Settings) {
	if err := c.openMgr.Bind(s.GlobalShortcut, c.onOpenShortcut); err != nil {
		c.log.Warn().Err(err).Msg("Failed to bind open-capture shortcut (non-fatal)")
	}
	if err := c.captureMgr.Bind(s.CaptureTextShortcut, c.onCaptureTextShortcut); err != nil {
		c.log.Warn().Err(err).Msg("Failed to bind capture-text shortcut (non-fatal)")
	}
	if err := c.saveMgr.Bind(s.SaveAsNoteShortcut, c.onSaveAsNoteShortcut); err != nil {
		c.log.Warn().Err(err).Msg("Failed to bind save-as-note shortcut (non-fatal)")
	}
}

func (c *Coordinator) onOpenShortcut() {
	c.log.Info().Msg("Open-capture shortcut triggered")
	c.ShowCapture()
}

// onCaptureTextShortcut grabs the selection before the window opens:
// once the surface takes focus, the copy chord would land in the wrong
// app. It runs on the capture manager's dispatch goroutine, which also
// serializes clipboard access across repeated presses.
func (c *Coordinator) onCaptureTextShortcut() {
	c.log.Info().Msg("Capture-text shortcut triggered")

	selected := c.sequencer.Capture()

	c.ShowCapture()

	if strings.TrimSpace(selected) == "" {
		c.log.Warn().Msg("No text was captured")
		return
	}

	time.Sleep(c.insertDelay)
	c.emitter.Emit(EventInsertCaptureText, selected)
}

func (c *Coordinator) onSaveAsNoteShortcut() {
	c.log.Info().Msg("Save-as-note shortcut triggered")
	c.emitter.Emit(EventSaveAsNote, nil)
}

// HandleEdgeOpen services an open request from the polling loop. The
// detector has already flagged the window open.
func (c *Coordinator) HandleEdgeOpen(req edge.OpenRequest) {
	s := c.Settings()
	c.surface.Position(req.X, req.Y, s.WindowWidth, s.WindowHeight)
	c.surface.Show()
	c.emitter.Emit(EventShowCapture, nil)
}

// ShowCapture positions and shows the surface and marks it open. The
// explicit path and the edge-trigger path keep windowOpen and cooldown
// symmetric.
func (c *Coordinator) ShowCapture() {
	s := c.Settings()

	if bounds, err := c.probe.DisplayBounds(); err == nil {
		x := 0
		if s.EdgeSide != "left" {
			x = bounds.Width - s.WindowWidth
		}
		y := (bounds.Height - s.WindowHeight) / 2
		c.surface.Position(x, y, s.WindowWidth, s.WindowHeight)
	} else {
		c.log.Warn().Err(err).Msg("Display query failed, showing window at last position")
	}

	c.surface.Show()
	c.detector.SetWindowOpen(true, time.Now())
	c.emitter.Emit(EventShowCapture, nil)
	c.log.Info().Msg("Capture window shown")
}

// HideCapture hides the surface. Marking the window closed arms the
// edge-trigger cooldown in the same transition.
func (c *Coordinator) HideCapture() {
	c.detector.SetWindowOpen(false, time.Now())
	c.surface.Hide()
	c.log.Info().Msg("Capture window hidden")
}

// LoadSettings re-reads settings from disk and refreshes the snapshot.
func (c *Coordinator) LoadSettings() (config.Settings, error) {
	s, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
	return s, nil
}

// SaveSettings validates, persists and applies new settings: trigger
// config refreshed, surface repositioned, settings_changed broadcast,
// all three shortcut roles rebound. A validation or persistence failure
// leaves the previous settings and bindings untouched.
func (c *Coordinator) SaveSettings(s config.Settings) error {
	if err := s.Validate(); err != nil {
		c.log.Error().Err(err).Msg("Settings validation failed")
		return err
	}
	if err := s.Save(); err != nil {
		c.log.Error().Err(err).Msg("Failed to persist settings")
		return err
	}

	c.apply(s)
	c.log.Info().Msg("Settings updated")
	return nil
}

// ApplySettings applies an externally loaded snapshot (config file
// hot-reload). Invalid files are rejected the same way a bad save is.
func (c *Coordinator) ApplySettings(s config.Settings) {
	if err := s.Validate(); err != nil {
		c.log.Warn().Err(err).Msg("Ignoring invalid settings from reload")
		return
	}
	c.apply(s)
}

func (c *Coordinator) apply(s config.Settings) {
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()

	c.detector.UpdateConfig(EdgeConfig(s))

	c.repositionSurface(s)

	// Visual changes go out before shortcut rebinding so they apply even
	// when a bind fails.
	c.emitter.Emit(EventSettingsChanged, s)

	c.BindShortcuts(s)
}

func (c *Coordinator) repositionSurface(s config.Settings) {
	bounds, err := c.probe.DisplayBounds()
	if err != nil {
		c.log.Warn().Err(err).Msg("Display query failed, skipping reposition")
		return
	}
	x := 0
	if s.EdgeSide != "left" {
		x = bounds.Width - s.WindowWidth
	}
	y := (bounds.Height - s.WindowHeight) / 2
	c.surface.Position(x, y, s.WindowWidth, s.WindowHeight)
}

// ToggleEdgeDetection flips the trigger on or off and persists the flag.
func (c *Coordinator) ToggleEdgeDetection(enabled bool) error {
	c.detector.SetEnabled(enabled)

	c.mu.Lock()
	c.settings.EdgeDetectionEnabled = enabled
	s := c.settings
	c.mu.Unlock()

	return s.Save()
}

// SaveAsNote hides the surface and writes the content as a new note.
func (c *Coordinator) SaveAsNote(content string) (string, error) {
	s := c.Settings()

	c.HideCapture()
	time.Sleep(50 * time.Millisecond)

	result, err := notes.SaveAsNote(content, s)
	if err != nil {
		return "", err
	}

	c.log.Info().Str("file", result.Filename).Msg("Content saved as note")
	if c.notify != nil {
		c.notify("Collector", result.Message)
	}
	return result.Message, nil
}

// AppendToDailyNote appends text to today's daily note.
func (c *Coordinator) AppendToDailyNote(text string) error {
	if err := notes.AppendToDailyNote(text, c.Settings()); err != nil {
		return err
	}
	c.log.Info().Msg("Content appended to daily note")
	if c.notify != nil {
		c.notify("Collector", "Added to daily note")
	}
	return nil
}

// SaveImage stores a dropped image file.
func (c *Coordinator) SaveImage(path string) (image.Processed, error) {
	p, err := image.SaveFile(path, c.Settings())
	if err != nil {
		return image.Processed{}, fmt.Errorf("save image: %w", err)
	}
	c.log.Info().Str("file", p.Filename).Msg("Image saved")
	return p, nil
}

// SaveImageFromBytes stores an image delivered as base64.
func (c *Coordinator) SaveImageFromBytes(bytesBase64, filename string) (image.Processed, error) {
	p, err := image.SaveBytes(bytesBase64, filename, c.Settings())
	if err != nil {
		return image.Processed{}, fmt.Errorf("save image: %w", err)
	}
	c.log.Info().Str("file", p.Filename).Msg("Image saved from bytes")
	return p, nil
}

// Close releases the shortcut registrations.
func (c *Coordinator) Close() {
	c.openMgr.Close()
	c.captureMgr.Close()
	c.saveMgr.Close()
}
