// package tasks implements the account and library operations behind the CLI, API, and TUI surfaces.
//
// The core abstraction is LibraryEngine, which owns registration, login, catalog search, and playlist curation.
// Long-running operations emit progress updates via channels for non-blocking status reporting.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/repositories"
	"github.com/desertthunder/vidvault/internal/services"
	"github.com/desertthunder/vidvault/internal/session"
	"github.com/desertthunder/vidvault/internal/shared"
)

// RegisterParams carries the registration form fields. Every field is required.
type RegisterParams struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	FirstName       string
	ImageURL        string
}

// LibraryEngine orchestrates account and playlist operations against the user
// directory, the session scope, and the video catalog.
type LibraryEngine struct {
	users    *repositories.UserRepository
	sessions *session.Manager
	catalog  services.Catalog
	now      func() time.Time
}

// NewLibraryEngine creates a new LibraryEngine with the provided dependencies.
func NewLibraryEngine(users *repositories.UserRepository, sessions *session.Manager, catalog services.Catalog) *LibraryEngine {
	return &LibraryEngine{
		users:    users,
		sessions: sessions,
		catalog:  catalog,
		now:      time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// isStrongPassword checks the registration password policy: at least six
// characters with one uppercase letter and one digit.
func isStrongPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	hasUpper, hasDigit := false, false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// Register creates a new account after validating the registration form.
//
// Checks run in order: required fields, username availability, password
// strength, confirmation match. The new account starts with an empty playlist
// collection and is not logged in.
func (e *LibraryEngine) Register(params RegisterParams) (*models.User, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.TrimSpace(params.Email)
	firstName := strings.TrimSpace(params.FirstName)
	imageURL := strings.TrimSpace(params.ImageURL)

	if username == "" || params.Password == "" || params.ConfirmPassword == "" ||
		email == "" || firstName == "" || imageURL == "" {
		return nil, fmt.Errorf("%w: all registration fields are required", shared.ErrMissingField)
	}

	taken, err := e.users.Exists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", shared.ErrUsernameTaken, username)
	}

	if !isStrongPassword(params.Password) {
		return nil, shared.ErrWeakPassword
	}

	if params.Password != params.ConfirmPassword {
		return nil, shared.ErrPasswordMismatch
	}

	user := &models.User{
		Username:  username,
		Password:  params.Password,
		Email:     email,
		FirstName: firstName,
		ImageURL:  imageURL,
		CreatedAt: e.now(),
		Playlists: []models.Playlist{},
	}

	if err := e.users.Insert(user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return user, nil
}

// Login verifies credentials and makes the matching account current.
//
// The lookup is case and whitespace insensitive; the password comparison is
// exact. An unknown username and a wrong password produce the same error.
func (e *LibraryEngine) Login(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password", shared.ErrMissingField)
	}

	user, err := e.users.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.Password != password {
		return nil, shared.ErrInvalidCredentials
	}

	if err := e.sessions.SetCurrent(user.Username); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return user, nil
}

// Logout clears the current-user pointer. Safe to call when nobody is logged in.
func (e *LibraryEngine) Logout() error {
	return e.sessions.ClearCurrent()
}

// CurrentUser returns the logged-in account, or (nil, nil) when there is none.
func (e *LibraryEngine) CurrentUser() (*models.User, error) {
	return e.sessions.CurrentUser()
}

// RequireUser resolves the logged-in account, failing with
// [shared.ErrNotLoggedIn] when there is none.
func (e *LibraryEngine) RequireUser() (*models.User, error) {
	user, err := e.sessions.CurrentUser()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotLoggedIn
	}
	return user, nil
}

// Search queries the catalog, remembering the query as the last search.
//
// An empty query falls back to the stored last search, restoring the previous
// result set the way the search page does on load. Returns the query actually
// used alongside the results.
func (e *LibraryEngine) Search(ctx context.Context, query string) ([]models.Video, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = e.sessions.LastSearch()
	}
	if query == "" {
		return nil, "", fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	if err := e.sessions.SetLastSearch(query); err != nil {
		return nil, query, fmt.Errorf("failed to store last search: %w", err)
	}

	videos, err := e.catalog.Search(ctx, query)
	if err != nil {
		if errors.Is(err, shared.ErrMissingAPIKey) {
			return nil, query, err
		}
		return nil, query, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}

	return videos, query, nil
}

// ClearLastSearch drops the stored last search.
func (e *LibraryEngine) ClearLastSearch() error {
	return e.sessions.SetLastSearch("")
}

// SavedIn lists the names of the current user's playlists containing the video.
//
// Empty when the video is not saved anywhere; the caller uses this both for
// display ("Saved in: ...") and as the duplicate guard before adding.
func (e *LibraryEngine) SavedIn(videoID string) ([]string, error) {
	user, err := e.RequireUser()
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, pl := range user.Playlists {
		if pl.HasVideo(videoID) {
			names = append(names, pl.Name)
		}
	}

	return names, nil
}
