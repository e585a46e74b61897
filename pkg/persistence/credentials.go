package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CredentialsVersion is the current version of the credentials file format.
const CredentialsVersion = 1

// Credentials holds what a client needs to log back into a lobby.
type Credentials struct {
	// Version is the file format version.
	Version int `json:"version"`

	// SavedAt is when the credentials were last saved.
	SavedAt time.Time `json:"saved_at"`

	// Host is the lobby the credentials belong to.
	Host string `json:"host"`

	// Username is the account name.
	Username string `json:"username"`

	// Token is the authentication token issued by the lobby.
	Token string `json:"token,omitempty"`

	// Verified indicates the account passed verification.
	Verified bool `json:"verified,omitempty"`
}

// Store manages persistence of credentials to a JSON file. The file
// is written with owner-only permissions since the token is a secret.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a credentials store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Save persists the credentials to disk.
func (s *Store) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	creds.Version = CredentialsVersion
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Load reads credentials from disk.
// Returns nil, nil if the file doesn't exist.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	if creds.Version > CredentialsVersion {
		return nil, fmt.Errorf("credentials file version %d is newer than supported %d",
			creds.Version, CredentialsVersion)
	}
	return &creds, nil
}

// Clear removes the credentials file. Clearing a missing file is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
