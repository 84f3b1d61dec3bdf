// package session tracks the current user and last search across invocations.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/repositories"
	"github.com/desertthunder/vidvault/internal/shared"
)

// state is the full session scope, serialized as one JSON document.
//
// Reads fail soft: a missing or corrupt file yields the zero state, never an
// error, mirroring the fail-soft contract of the legacy session store.
type state struct {
	CurrentUser string `json:"currentUser,omitempty"`
	LastSearch  string `json:"lastSearch,omitempty"`
}

func (s state) empty() bool {
	return s.CurrentUser == "" && s.LastSearch == ""
}

// Manager owns the session scope with an explicit lifecycle: the pointer is
// created at login via [Manager.SetCurrent] and destroyed at logout via
// [Manager.ClearCurrent]. Operations needing the current user receive the
// Manager instead of reaching into ambient storage.
type Manager struct {
	path  string
	users *repositories.UserRepository
}

// NewManager creates a session manager backed by the state file at path,
// resolving the current-user pointer through the given repository.
func NewManager(path string, users *repositories.UserRepository) *Manager {
	return &Manager{path: path, users: users}
}

// SetCurrent stores the raw username string as the session pointer.
func (m *Manager) SetCurrent(username string) error {
	s := m.load()
	s.CurrentUser = username
	return m.save(s)
}

// CurrentUsername returns the session pointer, or "" when no user is current.
func (m *Manager) CurrentUsername() string {
	return m.load().CurrentUser
}

// ClearCurrent removes the session pointer. Used by logout.
func (m *Manager) ClearCurrent() error {
	s := m.load()
	s.CurrentUser = ""
	return m.save(s)
}

// CurrentUser resolves the session pointer through the user directory.
//
// Returns (nil, nil) when no user is current or the pointer is dangling.
// The returned record's playlist collection is always non-nil; the
// normalization is applied on every read and never persisted back.
func (m *Manager) CurrentUser() (*models.User, error) {
	username := m.CurrentUsername()
	if username == "" {
		return nil, nil
	}

	user, err := m.users.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	return user.EnsurePlaylists(), nil
}

// UpdateCurrentUser is the sole write path for playlist mutations.
//
// Resolves the current user, applies the mutation to an independent deep
// copy, persists the copy via whole-record replace, and returns the mutated
// record. Returns (nil, nil) when no user is current. Not atomic across the
// read and write halves; safe under the single interaction context this
// application runs in. A record that vanishes between the halves surfaces as
// [shared.ErrUserNotFound] rather than a silently dropped write.
func (m *Manager) UpdateCurrentUser(mutate func(*models.User)) (*models.User, error) {
	user, err := m.CurrentUser()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	updated := user.Clone()
	mutate(updated)

	replaced, err := m.users.Replace(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to persist mutation: %w", err)
	}
	if !replaced {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.Username)
	}

	return updated, nil
}

// SetLastSearch stores the last search text. An empty query removes the entry.
func (m *Manager) SetLastSearch(query string) error {
	s := m.load()
	s.LastSearch = query
	return m.save(s)
}

// LastSearch returns the stored last search text, or "".
func (m *Manager) LastSearch() string {
	return m.load().LastSearch
}

// load reads the session scope, returning the zero state on any failure.
func (m *Manager) load() state {
	var s state

	data, err := os.ReadFile(m.path)
	if err != nil {
		return state{}
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return state{}
	}

	return s
}

// save serializes the session scope. An empty state deletes the file, the
// analogue of the platform clearing session storage.
func (m *Manager) save(s state) error {
	if s.empty() {
		if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear session file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}
