package tui

// Message types for the list views

// requestDoneMsg signals that a collection request returned
type requestDoneMsg struct {
	Action string // What was attempted, used for the notice text
	Err    error
}

// collectionChangedMsg signals that the collection published a new state
type collectionChangedMsg struct{}

// sessionEndedMsg signals that the session was invalidated or logged out
type sessionEndedMsg struct{}

// noticeTickMsg prunes expired notices
type noticeTickMsg struct{}
