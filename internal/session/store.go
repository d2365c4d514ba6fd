// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoSession indicates no session is stored.
	ErrNoSession = errors.New("no active session")

	// ErrCorrupt indicates the stored session could not be decoded or
	// unsealed. Callers should treat this as signed-out and clear it.
	ErrCorrupt = errors.New("session data is corrupt")
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the persisted authentication state: the bearer token and
// the signed-in admin profile, stored together so either both exist or
// neither does.
type Session struct {
	Token   string          `json:"token"`
	User    model.AdminUser `json:"user"`
	SavedAt time.Time       `json:"saved_at"`
}

// Valid reports whether the session carries both a token and a user.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != ""
}

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend persists a session. Implementations must make Save and Clear
// atomic with respect to crashes.
type Backend interface {
	// Load returns the stored session, ErrNoSession if none exists, or
	// ErrCorrupt if the stored data cannot be decoded.
	Load() (*Session, error)
	// Save persists the session, replacing any previous one.
	Save(*Session) error
	// Clear removes the stored session. Clearing an empty backend is not
	// an error.
	Clear() error
}

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileBackend stores the session sealed on disk. The sealing key lives
// next to the session file in its own 0600 file.
type FileBackend struct {
	path string
	keys KeyStore
}

// NewFileBackend creates a file backend rooted at dir (typically
// ~/.efine). The session file is dir/session.bin, the key dir/session.key.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{
		path: filepath.Join(dir, "session.bin"),
		keys: NewFileKeyStore(filepath.Join(dir, "session.key")),
	}
}

// DefaultDir returns the default session directory (~/.efine).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".efine"), nil
}

// Load reads and unseals the stored session.
func (f *FileBackend) Load() (*Session, error) {
	sealed, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	key, err := loadOrCreateKey(f.keys)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key[:])

	plaintext, err := open(key, sealed)
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		return nil, ErrCorrupt
	}
	if !sess.Valid() {
		return nil, ErrCorrupt
	}
	return &sess, nil
}

// Save seals and writes the session.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *FileBackend) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.New("refusing to save incomplete session")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	key, err := loadOrCreateKey(f.keys)
	if err != nil {
		return err
	}
	defer zeroBytes(key[:])

	plaintext, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	sealed, err := seal(key, plaintext)
	if err != nil {
		return err
	}

	if err := util.AtomicWriteFile(f.path, sealed, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the session file. The sealing key is kept so a later
// sign-in reuses it.
func (f *FileBackend) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// =============================================================================
// MEMORY BACKEND
// =============================================================================

// MemoryBackend holds the session in memory only. Used in tests and when
// the user signs in with --no-persist.
type MemoryBackend struct {
	mu   sync.Mutex
	sess *Session
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the held session or ErrNoSession.
func (m *MemoryBackend) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, ErrNoSession
	}
	cp := *m.sess
	return &cp, nil
}

// Save replaces the held session.
func (m *MemoryBackend) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.New("refusing to save incomplete session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sess
	m.sess = &cp
	return nil
}

// Clear drops the held session.
func (m *MemoryBackend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}

// =============================================================================
// STORE
// =============================================================================

// Store is the session authority for the whole process. It caches the
// current session in memory and keeps the backend in sync. All reads and
// writes of authentication state go through a single Store instance.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	current *Session
	loaded  bool
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewDefaultStore creates a Store over the default file backend.
func NewDefaultStore() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return NewStore(NewFileBackend(dir)), nil
}

// Load returns the current session, reading from the backend on first
// call. A corrupt stored session is cleared and reported as ErrNoSession;
// the caller just sees signed-out.
func (s *Store) Load() (*Session, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		if s.current == nil {
			return nil, ErrNoSession
		}
		cp := *s.current
		return &cp, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		sess, err := s.backend.Load()
		switch {
		case err == nil:
			s.current = sess
		case errors.Is(err, ErrNoSession):
			s.current = nil
		case errors.Is(err, ErrCorrupt):
			// SECURITY: A tampered or truncated session never half-loads.
			_ = s.backend.Clear()
			s.current = nil
		default:
			return nil, err
		}
		s.loaded = true
	}
	if s.current == nil {
		return nil, ErrNoSession
	}
	cp := *s.current
	return &cp, nil
}

// Save stores a new session, replacing any existing one.
func (s *Store) Save(sess *Session) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(sess); err != nil {
		return err
	}
	cp := *sess
	s.current = &cp
	s.loaded = true
	return nil
}

// UpdateUser replaces the stored user profile while keeping the token.
// Used after profile edits and 2FA enable/disable round trips.
func (s *Store) UpdateUser(user model.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoSession
	}
	updated := *s.current
	updated.User = user
	if err := s.backend.Save(&updated); err != nil {
		return err
	}
	s.current = &updated
	return nil
}

// Clear removes the session from memory and the backend. The in-memory
// copy is dropped first so concurrent readers see signed-out even if the
// backend removal fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.loaded = true
	return s.backend.Clear()
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	sess, err := s.Load()
	if err != nil {
		return ""
	}
	return sess.Token
}

// User returns the signed-in admin and whether a session exists.
func (s *Store) User() (model.AdminUser, bool) {
	sess, err := s.Load()
	if err != nil {
		return model.AdminUser{}, false
	}
	return sess.User, true
}
