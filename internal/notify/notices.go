// Package notify keeps the short-lived failure notices shown to the user.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/paging"
)

// DefaultTTL is how long a notice stays visible
const DefaultTTL = 6 * time.Second

// Notice is a dismissable message
type Notice struct {
	ID      string
	Message string
	Created time.Time
	Expires time.Time
}

// Center holds the active notices. Safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewCenter creates a notice center. ttl <= 0 uses DefaultTTL.
func NewCenter(ttl time.Duration, logger *slog.Logger) *Center {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now, logger: logger}
}

// Push adds a notice and returns it
func (c *Center) Push(message string) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := Notice{
		ID:      uuid.NewString(),
		Message: message,
		Created: now,
		Expires: now.Add(c.ttl),
	}
	c.notices = append(c.notices, n)
	return n
}

// Remove dismisses a notice. Unknown ids are ignored.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

// Active returns the notices that have not expired, oldest first, and
// forgets the rest.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	kept := c.notices[:0]
	for _, n := range c.notices {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	c.notices = kept
	return append([]Notice(nil), kept...)
}

// Report turns a failed action into a notice. Outcomes that are not failures
// the user can act on are skipped: superseded or cancelled requests, and 401s,
// which the session guard handles by logging out. Returns whether a notice
// was pushed.
func (c *Center) Report(err error, action string) bool {
	switch {
	case err == nil,
		errors.Is(err, paging.ErrSuperseded),
		errors.Is(err, paging.ErrClosed),
		errors.Is(err, context.Canceled),
		domain.IsUnauthorized(err):
		return false
	}
	msg := domain.UserMessage(err, action)
	c.logger.Warn("action failed", "action", action, "error", err)
	c.Push(msg)
	return true
}
