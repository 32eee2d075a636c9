package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// Store persists the whole session as one JSON file. Reads and writes
// always cover the full blob; there are no field-level updates.
type Store struct {
	path string
}

// DefaultPath returns the session file in the user's home directory.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".time4kids_session")
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Load reads the persisted session. A missing file is not an error and
// yields a nil session.
func (s *Store) Load() (*models.Session, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Save(sess models.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0600)
}

// Clear removes the session file. Clearing an absent file is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
