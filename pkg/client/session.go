package client

import (
	"encoding/json"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
	"sync"
)

// Snapshot is the persisted form of a session.
type Snapshot struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Persistence stores a session between process runs.
type Persistence interface {
	Load() (Snapshot, error)
	Save(snapshot Snapshot) error
}

// Session holds who is logged in. It is passed explicitly to calls that need
// authentication and writes every change through to its Persistence.
type Session struct {
	mu          sync.RWMutex
	snapshot    Snapshot
	persistence Persistence
}

// NewSession restores the last saved state. A nil persistence keeps the session in memory.
func NewSession(persistence Persistence) (*Session, error) {
	s := &Session{persistence: persistence}
	if persistence == nil {
		return s, nil
	}

	snapshot, err := persistence.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore session")
	}
	s.snapshot = snapshot
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.User == nil {
		return nil
	}
	user := *s.snapshot.User
	return &user
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) set(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	if s.persistence == nil {
		return nil
	}
	return errors.Wrap(s.persistence.Save(snapshot), "failed to persist session")
}

func (s *Session) setUser(user *User) error {
	return s.set(Snapshot{Token: s.Token(), User: user})
}

func (s *Session) clear() error {
	return s.set(Snapshot{})
}

// FileStore keeps a session snapshot as a JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (Snapshot, error) {
	var snapshot Snapshot

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return snapshot, nil
	}
	if err != nil {
		return snapshot, err
	}

	if err = json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, errors.Wrapf(err, "corrupted session file %s", f.path)
	}
	return snapshot, nil
}

func (f *FileStore) Save(snapshot Snapshot) error {
	if snapshot.Token == "" && snapshot.User == nil {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
