package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/shared"
)

// UserRepository persists [models.User] records, indexed by normalized username.
//
// Playlists are stored as a JSON document column on the user row: the playlist
// mutator always replaces the whole user record, so per-user writes stay
// atomic without rewriting the rest of the directory.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List retrieves all users in insertion order. Empty on a fresh store.
func (r *UserRepository) List() ([]*models.User, error) {
	query := `
		SELECT username, password, email, first_name, image_url, created_at, playlists, id
		FROM users
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// FindByUsername retrieves a user by trimmed, lower-cased username.
//
// A lookup miss is an explicit (nil, nil) result, not an error.
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	query := `
		SELECT username, password, email, first_name, image_url, created_at, playlists, id
		FROM users
		WHERE username_key = ?
		LIMIT 1
	`

	row := r.db.QueryRow(query, shared.NormalizeUsername(username))
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Exists reports whether a user with the given username is registered.
func (r *UserRepository) Exists(username string) (bool, error) {
	user, err := r.FindByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Insert appends a user to the directory.
//
// Uniqueness is NOT re-checked here; callers guard against duplicate usernames
// at registration time. Generates an ID when the record carries none.
func (r *UserRepository) Insert(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if user.ID == "" {
		user.ID = shared.GenerateID()
	}

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	playlists, err := marshalPlaylists(user.Playlists)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, sequence, username, username_key, password, email, first_name, image_url, created_at, playlists)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		user.ID,
		sequence,
		user.Username,
		shared.NormalizeUsername(user.Username),
		user.Password,
		user.Email,
		user.FirstName,
		user.ImageURL,
		user.CreatedAt,
		playlists,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Replace overwrites the stored record whose normalized username matches.
//
// Returns false (and no error) when no matching entry exists.
func (r *UserRepository) Replace(user *models.User) (bool, error) {
	playlists, err := marshalPlaylists(user.Playlists)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE users
		SET username = ?, password = ?, email = ?, first_name = ?, image_url = ?, created_at = ?, playlists = ?
		WHERE username_key = ?
	`

	result, err := r.db.Exec(query,
		user.Username,
		user.Password,
		user.Email,
		user.FirstName,
		user.ImageURL,
		user.CreatedAt,
		playlists,
		shared.NormalizeUsername(user.Username),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// scanUser builds a [models.User] from a row scan function.
//
// A malformed playlists document degrades to an empty collection rather than
// failing the read.
func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var (
		id        string
		username  string
		password  string
		email     string
		firstName string
		imageURL  string
		createdAt time.Time
		playlists string
	)

	err := scan(&username, &password, &email, &firstName, &imageURL, &createdAt, &playlists, &id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := &models.User{
		ID:        id,
		Username:  username,
		Password:  password,
		Email:     email,
		FirstName: firstName,
		ImageURL:  imageURL,
		CreatedAt: createdAt,
		Playlists: []models.Playlist{},
	}

	if playlists != "" {
		if err := json.Unmarshal([]byte(playlists), &user.Playlists); err != nil {
			user.Playlists = []models.Playlist{}
		}
	}

	return user.EnsurePlaylists(), nil
}

// marshalPlaylists serializes a playlist collection for the document column.
func marshalPlaylists(playlists []models.Playlist) (string, error) {
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	data, err := json.Marshal(playlists)
	if err != nil {
		return "", fmt.Errorf("failed to marshal playlists: %w", err)
	}

	return string(data), nil
}
