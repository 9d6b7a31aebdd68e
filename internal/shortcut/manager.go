package shortcut

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Role identifies which logical hotkey a Manager owns.
type Role string

const (
	RoleOpenCapture Role = "open_capture"
	RoleCaptureText Role = "capture_text"
	RoleSaveAsNote  Role = "save_as_note"
)

// Registration is a live OS-level hotkey grab.
type Registration interface {
	Unregister() error
}

// Registrar binds a combination to a press callback at the OS level. The
// callback may fire on an OS event thread; the Manager never runs user
// work there.
type Registrar interface {
	Register(combo Combo, onPress func()) (Registration, error)
}

// Manager owns exactly one binding for one role. Rebinding diffs against
// the current combination and never leaves two registrations live at once.
// A failed bind for one role has no effect on other roles: every role gets
// its own Manager.
type Manager struct {
	role      Role
	registrar Registrar
	log       zerolog.Logger

	mu      sync.Mutex
	current string
	active  Registration
	stop    chan struct{}
}

// NewManager creates a manager with no active binding.
func NewManager(role Role, reg Registrar, log zerolog.Logger) *Manager {
	return &Manager{
		role:      role,
		registrar: reg,
		log:       log.With().Str("role", string(role)).Logger(),
	}
}

// Bind replaces the manager's binding with the given combination.
//
//   - Empty combination: unregister whatever is bound and succeed
//     (explicit "disabled" state).
//   - Same canonical combination as currently bound: no-op success, so a
//     settings save that didn't touch the shortcut causes no OS churn.
//   - Otherwise: unregister the old binding (best effort), register the
//     new one, and store it only on success. On failure the role keeps
//     its previous binding if the old registration was still usable, or
//     ends up unbound; either way other roles are untouched.
//
// onTrigger is dispatched on a manager-owned goroutine, one event at a
// time; presses arriving while a previous trigger is still running are
// dropped rather than queued, because every consumer of these triggers
// (clipboard capture in particular) must not overlap with itself.
func (m *Manager) Bind(combination string, onTrigger func()) error {
	combo, err := Parse(combination)
	if err != nil {
		return &BindError{Role: m.role, Combination: combination, Err: err}
	}
	canonical := combo.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if canonical == "" {
		m.unbindLocked()
		m.log.Info().Msg("Shortcut disabled")
		return nil
	}

	if canonical == m.current {
		m.log.Debug().Str("combo", canonical).Msg("Shortcut unchanged, skipping re-registration")
		return nil
	}

	m.unbindLocked()

	events := make(chan struct{}, 1)
	stop := make(chan struct{})

	reg, err := m.registrar.Register(combo, func() {
		select {
		case events <- struct{}{}:
		default:
		}
	})
	if err != nil {
		close(stop)
		return &BindError{Role: m.role, Combination: canonical, Err: err}
	}

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-events:
				onTrigger()
			}
		}
	}()

	m.current = canonical
	m.active = reg
	m.stop = stop
	m.log.Info().Str("combo", canonical).Msg("Shortcut registered")
	return nil
}

// Current returns the canonical combination currently bound, or "".
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close releases the binding, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unbindLocked()
}

func (m *Manager) unbindLocked() {
	if m.active == nil {
		return
	}
	if err := m.active.Unregister(); err != nil {
		// Losing the unregister is survivable; the grab is replaced or the
		// process is going away.
		m.log.Warn().Err(err).Str("combo", m.current).Msg("Failed to unregister shortcut")
	}
	close(m.stop)
	m.active = nil
	m.stop = nil
	m.current = ""
}

// BindError reports a failed bind attempt for one role.
type BindError struct {
	Role        Role
	Combination string
	Err         error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s to %q: %v", e.Role, e.Combination, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }
