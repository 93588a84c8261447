// Package service holds the operations the commands and views run against
// the current session.
package service

import (
	"github.com/mmcdole/mcc/internal/domain"
)

// Sessions yields the authenticated remote of the current session
type Sessions interface {
	Remote() (domain.Remote, error)
}

// SessionReplacer is the account service's view of the session manager
type SessionReplacer interface {
	Sessions
	Replace(session *domain.Session) error
}
