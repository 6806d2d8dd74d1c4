package session

import "github.com/okian/sgva/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithKey seals the session file with NaCl secretbox under key.
func WithKey(key *[32]byte) Option {
	return func(s *FileStore) {
		if key != nil {
			k := *key
			s.key = &k
		}
	}
}

// WithLogger sets the logger used to report unreadable session files.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}
