package session

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrSessionCorrupt = errors.New("session file corrupt")
	ErrPersist        = errors.New("session persist failed")
)
