// Package tray wires the system tray menu: quick capture, edge-detection
// toggle, settings, quit.
package tray

import (
	"context"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"collector/internal/session"
)

// EventOpenSettings asks the frontend to open the settings window.
const EventOpenSettings = "open_settings"

// UI is the tray menu. It must run on the process main thread.
type UI struct {
	coord   *session.Coordinator
	emitter session.Emitter
	log     zerolog.Logger
	onQuit  func()

	mCapture *systray.MenuItem
	mEdge    *systray.MenuItem
}

// New creates the tray UI. onQuit runs when the user picks Quit.
func New(coord *session.Coordinator, emitter session.Emitter, log zerolog.Logger, onQuit func()) *UI {
	return &UI{coord: coord, emitter: emitter, log: log, onQuit: onQuit}
}

// Run blocks on the systray loop until Quit.
func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	systray.SetTitle("📥")
	systray.SetTooltip("Collector - Quick Capture")

	u.mCapture = systray.AddMenuItem("Quick Capture", "Open the capture window")
	systray.AddSeparator()

	edgeEnabled := u.coord.Settings().EdgeDetectionEnabled
	u.mEdge = systray.AddMenuItemCheckbox("Edge Detection", "Open the capture window from the screen edge", edgeEnabled)

	mSettings := systray.AddMenuItem("Settings...", "Open settings")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit Collector")

	go u.handleEvents(mSettings, mQuit)
}

func (u *UI) handleEvents(mSettings, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mCapture.ClickedCh:
			u.coord.ShowCapture()
		case <-u.mEdge.ClickedCh:
			u.toggleEdge()
		case <-mSettings.ClickedCh:
			u.emitter.Emit(EventOpenSettings, nil)
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) toggleEdge() {
	enabled := !u.coord.Settings().EdgeDetectionEnabled
	if err := u.coord.ToggleEdgeDetection(enabled); err != nil {
		u.log.Warn().Err(err).Msg("Failed to persist edge-detection toggle")
	}
	if enabled {
		u.mEdge.Check()
	} else {
		u.mEdge.Uncheck()
	}
	u.log.Info().Bool("enabled", enabled).Msg("Edge detection toggled from tray")
}

func (u *UI) onExit() {
	if u.onQuit != nil {
		u.onQuit()
	}
}
