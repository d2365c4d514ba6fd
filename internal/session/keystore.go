// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jeranaias/efine-tui/internal/util"
)

// =============================================================================
// KEYSTORE
// =============================================================================

// KeySize is the secretbox key size (32 bytes).
const KeySize = 32

// nonceSize is the secretbox nonce size (24 bytes).
const nonceSize = 24

// KeyStore defines the interface for session key storage.
type KeyStore interface {
	// Store securely stores the sealing key.
	Store(key []byte) error
	// Retrieve retrieves the sealing key.
	Retrieve() ([]byte, error)
	// Delete removes the key.
	Delete() error
	// Exists checks if a key is stored.
	Exists() bool
}

// FileKeyStore stores the sealing key in a file with restricted
// permissions (0600). The key never leaves the local machine.
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a new file-based key store.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Store saves the key to a file with restricted permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *FileKeyStore) Store(key []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// Retrieve reads the key from the file.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("key file has wrong size: %d bytes", len(key))
	}
	return key, nil
}

// Delete removes the key file.
func (f *FileKeyStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

// Exists checks if the key file exists.
func (f *FileKeyStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// loadOrCreateKey returns the sealing key, generating one on first use.
func loadOrCreateKey(ks KeyStore) (*[KeySize]byte, error) {
	var key [KeySize]byte

	if ks.Exists() {
		raw, err := ks.Retrieve()
		if err != nil {
			return nil, err
		}
		copy(key[:], raw)
		zeroBytes(raw)
		return &key, nil
	}

	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	if err := ks.Store(key[:]); err != nil {
		return nil, err
	}
	return &key, nil
}

// zeroBytes zeros sensitive byte slices.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// SEAL / OPEN
// =============================================================================

// seal encrypts plaintext with secretbox. Output: nonce || box.
func seal(key *[KeySize]byte, plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// open decrypts a sealed blob produced by seal.
func open(key *[KeySize]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrCorrupt
	}
	return plaintext, nil
}
