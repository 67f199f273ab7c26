// Package encfile is the secret backend used when no OS credential facility
// is available. All passwords live in one JSON file of per-connection
// {nonce, ciphertext} records, each sealed with ChaCha20-Poly1305. The
// encryption key is kept in a separate, owner-only key file and never inside
// the secrets file itself.
package encfile

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/pgvault/pgvault/vault"
)

const (
	secretsFileName = "secrets.enc.json"
	keyFileName     = "secrets.key"

	// formatVersion is checked on load so a future layout change is
	// rejected instead of misparsed.
	formatVersion = 1
)

// Store persists encrypted secrets at a fixed path. Every mutation loads the
// whole mapping, changes it in memory and rewrites the file atomically.
// Two processes racing on a mutation are last-writer-wins at rename
// granularity; a known limitation for a single-user local tool.
type Store struct {
	path    string
	keyPath string
}

type record struct {
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

type secretsFile struct {
	Version int               `json:"version"`
	Entries map[string]record `json:"entries"`
}

func New(dir string) *Store {
	return &Store{
		path:    filepath.Join(dir, secretsFileName),
		keyPath: filepath.Join(dir, keyFileName),
	}
}

func (s *Store) Name() string {
	return "encrypted file"
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Put(key string, secret string) error {
	aead, err := s.cipher()
	if err != nil {
		return err
	}

	file, err := s.load()
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	// The connection name goes in as additional data, so a record moved to
	// another key fails authentication.
	file.Entries[key] = record{
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, []byte(secret), []byte(key)),
	}

	return s.save(file)
}

func (s *Store) Get(key string) (string, error) {
	aead, err := s.cipher()
	if err != nil {
		return "", err
	}

	file, err := s.load()
	if err != nil {
		return "", err
	}

	rec, ok := file.Entries[key]
	if !ok {
		return "", vault.ErrNotFound
	}

	if len(rec.Nonce) != aead.NonceSize() {
		return "", &vault.CorruptStoreError{Path: s.path, Cause: fmt.Errorf("record %s has invalid nonce", key)}
	}

	plaintext, err := aead.Open(nil, rec.Nonce, rec.Ciphertext, []byte(key))
	if err != nil {
		return "", &vault.CorruptStoreError{Path: s.path, Cause: fmt.Errorf("record %s failed authentication", key)}
	}

	return string(plaintext), nil
}

func (s *Store) Delete(key string) error {
	file, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := file.Entries[key]; !ok {
		return vault.ErrNotFound
	}

	delete(file.Entries, key)

	return s.save(file)
}

func (s *Store) load() (*secretsFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &secretsFile{Version: formatVersion, Entries: map[string]record{}}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var file secretsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &vault.CorruptStoreError{Path: s.path, Cause: err}
	}

	if file.Version != formatVersion {
		return nil, &vault.CorruptStoreError{Path: s.path, Cause: fmt.Errorf("unsupported format version %d", file.Version)}
	}

	if file.Entries == nil {
		file.Entries = map[string]record{}
	}

	return &file, nil
}

func (s *Store) save(file *secretsFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := renameio.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	return nil
}

// cipher loads the AEAD key, generating one on first use. The key file sits
// next to the secrets file but its material never enters it.
func (s *Store) cipher() (cipher.AEAD, error) {
	key, err := s.loadKey()
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}

func (s *Store) loadKey() ([]byte, error) {
	key, err := os.ReadFile(s.keyPath)
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, &vault.CorruptStoreError{Path: s.keyPath, Cause: fmt.Errorf("key file has %d bytes, want %d", len(key), chacha20poly1305.KeySize)}
		}
		return key, nil
	}

	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file %s: %w", s.keyPath, err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate encryption key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	if err := renameio.WriteFile(s.keyPath, key, 0600); err != nil {
		return nil, fmt.Errorf("write key file %s: %w", s.keyPath, err)
	}

	return key, nil
}
