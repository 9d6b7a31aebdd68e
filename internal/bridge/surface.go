package bridge

// Surface drives the frontend capture window through bridge events. The
// window process owns the actual native chrome; from here it is just a
// listener for placement and visibility.
type Surface struct {
	server *Server
}

// Window placement/visibility events.
const (
	EventPositionWindow = "position_window"
	EventShowWindow     = "show_window"
	EventHideWindow     = "hide_window"
)

// NewSurface wraps the bridge server as a session.Surface.
func NewSurface(server *Server) *Surface {
	return &Surface{server: server}
}

func (s *Surface) Position(x, y, width, height int) {
	s.server.Emit(EventPositionWindow, map[string]int{
		"x": x, "y": y, "width": width, "height": height,
	})
}

func (s *Surface) Show() {
	s.server.Emit(EventShowWindow, nil)
}

func (s *Surface) Hide() {
	s.server.Emit(EventHideWindow, nil)
}
