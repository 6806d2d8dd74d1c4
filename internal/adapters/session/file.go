package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
)

const (
	filePermission = 0o600
	dirPermission  = 0o700
	nonceSize      = 24
)

// sealedMagic prefixes files written with a key.
var sealedMagic = []byte("SGVA1")

// entries mirrors the two durable key/value entries: the token string and
// the serialized user record.
type entries struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
}

// FileStore persists the session as a JSON file, written atomically.
type FileStore struct {
	path   string
	key    *[32]byte
	logger logger.Logger
	mu     sync.Mutex
}

// NewFileStore returns a store backed by path. The parent directory is
// created if needed.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	s := &FileStore{path: path, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Get implements Store.
func (s *FileStore) Get(ctx context.Context) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(ctx, "ignoring unreadable session file", logger.String("path", s.path), logger.Error(err))
		}
		return model.Session{User: model.User{}}
	}
	user := model.User{}
	if e.User != "" {
		user = model.ParseUser([]byte(e.User))
	}
	return model.Session{Token: e.Token, User: user}
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, token string, user model.User) error {
	if user == nil {
		user = model.User{}
	}
	u, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: encode user: %v", ErrPersist, err)
	}
	body, err := json.Marshal(entries{Token: token, User: string(u)})
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", ErrPersist, err)
	}
	if s.key != nil {
		if body, err = seal(body, s.key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(body)
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (s *FileStore) read() (entries, error) {
	var e entries
	data, err := os.ReadFile(s.path)
	if err != nil {
		return e, err
	}
	sealed := bytes.HasPrefix(data, sealedMagic)
	switch {
	case s.key != nil && sealed:
		if data, err = open(data, s.key); err != nil {
			return e, err
		}
	case s.key != nil || sealed:
		return e, fmt.Errorf("%w: sealing mismatch", ErrSessionCorrupt)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return entries{}, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	return e, nil
}

// write swaps the file in with a rename so readers see the old or the new
// content, never a partial one.
func (s *FileStore) write(body []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := tmp.Chmod(filePermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func seal(plain []byte, key *[32]byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrPersist, err)
	}
	out := append([]byte{}, sealedMagic...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plain, &nonce, key), nil
}

func open(data []byte, key *[32]byte) ([]byte, error) {
	data = data[len(sealedMagic):]
	if len(data) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: sealed payload too short", ErrSessionCorrupt)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("%w: cannot open sealed session", ErrSessionCorrupt)
	}
	return plain, nil
}
