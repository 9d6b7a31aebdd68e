// Package bridge connects UI windows to the session layer over a
// loopback websocket: commands come in as JSON requests, events go out
// as broadcasts to every connected window.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"collector/internal/config"
	"collector/internal/image"
)

// Commands is the request surface the frontend may invoke. The session
// coordinator implements it.
type Commands interface {
	LoadSettings() (config.Settings, error)
	SaveSettings(config.Settings) error
	ToggleEdgeDetection(enabled bool) error
	ShowCapture()
	HideCapture()
	SaveAsNote(content string) (string, error)
	AppendToDailyNote(text string) error
	SaveImage(path string) (image.Processed, error)
	SaveImageFromBytes(bytesBase64, filename string) (image.Processed, error)
}

type message struct {
	Type    string          `json:"type"` // "command", "response", "event"
	ID      int64           `json:"id,omitempty"`
	Command string          `json:"command,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	OK      bool            `json:"ok,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Server accepts window connections and bridges both directions. Writes
// to each client go through a per-client queue so broadcasts never
// interleave with responses on the wire.
type Server struct {
	commands Commands
	log      zerolog.Logger

	mu       sync.Mutex
	clients  map[*client]struct{}
	listener net.Listener

	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a bridge. The command surface is attached with
// SetCommands once the session layer exists (it emits through this
// server, so it is constructed second).
func NewServer(log zerolog.Logger) *Server {
	return &Server{
		log:      log,
		clients:  map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			// Loopback only; window bundles are local files.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetCommands attaches the command surface.
func (s *Server) SetCommands(commands Commands) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = commands
}

func (s *Server) commandSurface() Commands {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands
}

// Start listens on the loopback address ("127.0.0.1:0" for an ephemeral
// port) and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("Bridge listening")

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("Bridge server stopped")
		}
	}()
	return nil
}

// Port returns the bound port, or 0 before Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.log.Info().Int("windows", n).Msg("Window connected")

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) writeLoop(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *Server) readLoop(c *client) {
	defer s.drop(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn().Err(err).Msg("Malformed bridge message")
			continue
		}
		if msg.Type != "command" {
			continue
		}

		// Commands may block (note I/O, clipboard capture via show);
		// handle each on its own goroutine so one window can't stall
		// another's events.
		go func(msg message) {
			resp := s.dispatch(msg)
			data, err := json.Marshal(resp)
			if err != nil {
				s.log.Error().Err(err).Msg("Failed to encode response")
				return
			}
			if !s.sendTo(c, data) {
				s.log.Warn().Str("command", msg.Command).Msg("Window gone or send queue full, dropping response")
			}
		}(msg)
	}
}

// sendTo queues data for one client if it is still connected. The
// membership check and the send happen under the same lock drop holds,
// so a late response can never hit a channel drop already closed.
func (s *Server) sendTo(c *client, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	n := len(s.clients)
	s.mu.Unlock()
	c.conn.Close()
	s.log.Info().Int("windows", n).Msg("Window disconnected")
}

func (s *Server) dispatch(msg message) message {
	cmds := s.commandSurface()
	if cmds == nil {
		return message{Type: "response", ID: msg.ID, Error: "bridge not ready"}
	}
	payload, err := s.handleCommand(cmds, msg.Command, msg.Payload)
	resp := message{Type: "response", ID: msg.ID}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.OK = true
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			resp.OK = false
			resp.Error = err.Error()
			return resp
		}
		resp.Payload = data
	}
	return resp
}

// handleCommand routes one frontend command to the session layer.
func (s *Server) handleCommand(cmds Commands, command string, payload json.RawMessage) (any, error) {
	switch command {
	case "load_settings":
		return cmds.LoadSettings()

	case "save_settings":
		var settings config.Settings
		if err := json.Unmarshal(payload, &settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		return nil, cmds.SaveSettings(settings)

	case "toggle_edge_detection":
		var p struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return nil, cmds.ToggleEdgeDetection(p.Enabled)

	case "show_capture":
		cmds.ShowCapture()
		return nil, nil

	case "hide_capture":
		cmds.HideCapture()
		return nil, nil

	case "save_as_note":
		var p struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		msg, err := cmds.SaveAsNote(p.Content)
		if err != nil {
			return nil, err
		}
		return map[string]string{"message": msg}, nil

	case "append_to_daily_note":
		var p struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return nil, cmds.AppendToDailyNote(p.Text)

	case "save_image":
		var p struct {
			FilePath string `json:"file_path"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return cmds.SaveImage(p.FilePath)

	case "save_image_from_bytes":
		var p struct {
			BytesBase64 string `json:"bytes_base64"`
			Filename    string `json:"filename"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return cmds.SaveImageFromBytes(p.BytesBase64, p.Filename)

	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

// Emit broadcasts an event to every connected window. Slow windows get
// dropped-frame semantics rather than blocking the emitter.
func (s *Server) Emit(event string, payload any) {
	msg := message{Type: "event", Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.log.Error().Err(err).Str("event", event).Msg("Failed to encode event")
			return
		}
		msg.Payload = data
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Str("event", event).Msg("Failed to encode event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Warn().Str("event", event).Msg("Window send queue full, dropping event")
		}
	}
}
