// Package session owns the process-wide login state: the current session,
// its persisted record and the authenticated API client derived from it.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/mcc/internal/api"
	"github.com/mmcdole/mcc/internal/domain"
)

// Manager holds at most one session. Replace is the only way it changes:
// login, logout and the 401 guard all go through it, last write wins.
type Manager struct {
	mu         sync.RWMutex
	store      domain.Store
	current    *domain.Session
	client     *api.Client
	generation uint64
	observers  []domain.SessionObserver
	logger     *slog.Logger
	now        func() time.Time
}

var _ domain.OutcomeObserver = (*Manager)(nil)

// NewManager restores the persisted session, if any. A session whose token
// has already expired is removed instead of restored.
func NewManager(store domain.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}

	persisted, ok := store.LoadSession()
	if !ok {
		return m
	}
	if persisted.Token.Expired(m.now()) {
		logger.Info("dropping expired session", "api", persisted.APIBaseURL, "expiry", persisted.Token.Expiry)
		if err := store.SaveSession(nil); err != nil {
			logger.Warn("failed to remove expired session", "error", err)
		}
		return m
	}

	m.install(persisted)
	return m
}

// AddObserver registers o to be told about every session change
func (m *Manager) AddObserver(o domain.SessionObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Current returns a copy of the current session
func (m *Manager) Current() (domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.Session{}, false
	}
	return *m.current, true
}

// IsLoggedIn returns true when a session is present
func (m *Manager) IsLoggedIn() bool {
	_, ok := m.Current()
	return ok
}

// Client returns the authenticated client for the current session
func (m *Manager) Client() (*api.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return m.client, nil
}

// Remote returns the current client as a domain.Remote
func (m *Manager) Remote() (domain.Remote, error) {
	client, err := m.Client()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Replace installs s as the current session and persists it. nil logs out.
// The in-memory session is cleared on logout even when removing the
// persisted record fails.
func (m *Manager) Replace(s *domain.Session) error {
	m.mu.Lock()

	var err error
	if s == nil {
		err = m.clearLocked()
	} else {
		if saveErr := m.store.SaveSession(s); saveErr != nil {
			m.mu.Unlock()
			return fmt.Errorf("failed to persist session: %w", saveErr)
		}
		m.install(s)
	}
	m.unlockAndNotify()
	return err
}

// Logout clears the current session
func (m *Manager) Logout() error {
	return m.Replace(nil)
}

// ObserveFailure invalidates the current session on a 401
func (m *Manager) ObserveFailure(err error) {
	if !domain.IsUnauthorized(err) {
		return
	}
	m.logger.Warn("login token rejected, logging out")
	if err := m.Replace(nil); err != nil {
		m.logger.Error("failed to clear rejected session", "error", err)
	}
}

// invalidate logs out only while generation is still the installed one.
// The check and the clear happen under one lock so a session installed in
// between is never wiped.
func (m *Manager) invalidate(generation uint64) (bool, error) {
	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		return false, nil
	}
	err := m.clearLocked()
	m.unlockAndNotify()
	return true, err
}

// clearLocked drops the session and its persisted record. Caller holds mu.
func (m *Manager) clearLocked() error {
	m.current = nil
	m.client = nil
	m.generation++
	if err := m.store.SaveSession(nil); err != nil {
		return fmt.Errorf("failed to remove persisted session: %w", err)
	}
	return nil
}

// unlockAndNotify releases mu and tells observers about the session it held
func (m *Manager) unlockAndNotify() {
	current := m.current
	observers := append([]domain.SessionObserver(nil), m.observers...)
	m.mu.Unlock()

	if current == nil {
		m.logger.Info("session cleared")
	} else {
		m.logger.Info("session replaced", "api", current.APIBaseURL)
	}
	for _, o := range observers {
		o.OnSessionChange(copySession(current))
	}
}

// install sets the session and its client. Caller holds mu.
func (m *Manager) install(s *domain.Session) {
	session := *s
	m.generation++
	m.current = &session
	m.client = api.NewSessionClient(session, &guard{manager: m, generation: m.generation}, m.logger)
}

// guard forwards failures from one session's client. A 401 that arrives
// after the session it belongs to was replaced is ignored.
type guard struct {
	manager    *Manager
	generation uint64
}

func (g *guard) ObserveFailure(err error) {
	if !domain.IsUnauthorized(err) {
		return
	}
	cleared, clearErr := g.manager.invalidate(g.generation)
	if !cleared {
		return
	}
	g.manager.logger.Warn("login token rejected, logging out")
	if clearErr != nil {
		g.manager.logger.Error("failed to clear rejected session", "error", clearErr)
	}
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
