package domain

// Store handles local persistence (BoltDB + memory).
type Store interface {
	// === Session ===
	// LoadSession returns the persisted session record, false if logged out
	LoadSession() (*Session, bool)
	// SaveSession overwrites the record; nil removes it
	SaveSession(session *Session) error

	// === Labels ===
	GetLabels() ([]string, bool)
	SaveLabels(labels []string) error

	Close() error
}

// SessionObserver is notified after the current session is replaced.
// A nil session means the user was logged out.
type SessionObserver interface {
	OnSessionChange(session *Session)
}

// NoOpSessionObserver discards session changes (for testing).
type NoOpSessionObserver struct{}

func (NoOpSessionObserver) OnSessionChange(*Session) {}
