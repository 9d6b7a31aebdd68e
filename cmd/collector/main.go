package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gen2brain/beeep"

	"collector/internal/bridge"
	"collector/internal/capture"
	"collector/internal/config"
	"collector/internal/edge"
	"collector/internal/logging"
	"collector/internal/permissions"
	"collector/internal/screen"
	"collector/internal/session"
	"collector/internal/shortcut"
	"collector/internal/synth"
	"collector/internal/tray"
)

const defaultBridgeAddr = "127.0.0.1:46821"

var (
	// Version is set via ldflags at build time
	Version = "dev"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	log := logging.NewWithLevel(settings.LogLevel)
	log.Info().Str("version", Version).Str("vault", settings.VaultName).Str("edge", settings.EdgeSide).Msg("Starting Collector")

	// Selection capture needs input-synthesis approval on macOS. The app
	// stays usable without it: shortcuts and edge triggering still work,
	// captures just come up empty.
	if !permissions.PromptAccessibility() {
		log.Warn().Msg("Accessibility permission not granted; selection capture disabled until approved")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	probe := screen.NewProbe()
	detector := edge.NewDetector(session.EdgeConfig(settings))

	sequencer := capture.NewSequencer(
		capture.NewSystemClipboard(),
		synth.New(),
		permissions.CheckAccessibility,
		capture.DefaultSettleDelay,
		log,
	)

	registrar := shortcut.NewOSRegistrar()
	openMgr := shortcut.NewManager(shortcut.RoleOpenCapture, registrar, log)
	captureMgr := shortcut.NewManager(shortcut.RoleCaptureText, registrar, log)
	saveMgr := shortcut.NewManager(shortcut.RoleSaveAsNote, registrar, log)

	// Bridge first: the coordinator emits through it and the surface
	// lives behind it.
	server := bridge.NewServer(log)

	coord := session.New(session.Config{
		Settings:       settings,
		Detector:       detector,
		Sequencer:      sequencer,
		Probe:          probe,
		Surface:        bridge.NewSurface(server),
		Emitter:        server,
		Logger:         log,
		OpenManager:    openMgr,
		CaptureManager: captureMgr,
		SaveManager:    saveMgr,
		Notify: func(title, body string) {
			if err := beeep.Notify(title, body, ""); err != nil {
				log.Debug().Err(err).Msg("Notification failed")
			}
		},
	})
	defer coord.Close()

	server.SetCommands(coord)
	coord.BindShortcuts(settings)

	addr := os.Getenv("COLLECTOR_BRIDGE_ADDR")
	if addr == "" {
		addr = defaultBridgeAddr
	}
	if err := server.Start(ctx, addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start window bridge")
	}

	loop := edge.NewLoop(detector, probe, coord.HandleEdgeOpen, log)
	go loop.Run(ctx)

	stopWatch, err := config.Watch(log, coord.ApplySettings)
	if err != nil {
		log.Warn().Err(err).Msg("Config hot-reload unavailable")
	} else {
		defer stopWatch()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	// Tray MUST run on the main thread.
	ui := tray.New(coord, server, log, cancel)
	if err := ui.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
