package tui

import (
	"sync"

	"github.com/mmcdole/mcc/internal/domain"
)

// SessionWatcher adapts domain.SessionObserver to a channel for Bubble Tea.
// The channel is closed the first time the session goes away.
type SessionWatcher struct {
	once sync.Once
	ch   chan struct{}
}

// NewSessionWatcher creates a watcher. Register it with session.Manager.AddObserver.
func NewSessionWatcher() *SessionWatcher {
	return &SessionWatcher{ch: make(chan struct{})}
}

// OnSessionChange closes the channel when the session is cleared. A new
// session does not reopen it.
func (w *SessionWatcher) OnSessionChange(session *domain.Session) {
	if session != nil {
		return
	}
	w.once.Do(func() { close(w.ch) })
}

// Ended is closed once the session has ended
func (w *SessionWatcher) Ended() <-chan struct{} {
	return w.ch
}

// changeSignal coalesces collection updates into at most one pending wakeup.
// The view reads the latest state itself, so dropped signals lose nothing.
type changeSignal struct {
	ch chan struct{}
}

func newChangeSignal() *changeSignal {
	return &changeSignal{ch: make(chan struct{}, 1)}
}

func (s *changeSignal) notify() {
	select {
	case s.ch <- struct{}{}:
	default: // A wakeup is already pending
	}
}
