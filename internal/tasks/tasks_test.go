package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/repositories"
	"github.com/desertthunder/vidvault/internal/session"
	"github.com/desertthunder/vidvault/internal/shared"
	th "github.com/desertthunder/vidvault/internal/testing"
)

func setupEngine(t *testing.T) (*LibraryEngine, *th.MockCatalog) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	users := repositories.NewUserRepository(db)
	sessions := session.NewManager(filepath.Join(t.TempDir(), "session.json"), users)
	catalog := &th.MockCatalog{}

	engine := NewLibraryEngine(users, sessions, catalog)
	engine.now = func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return engine, catalog
}

func validRegistration() RegisterParams {
	return RegisterParams{
		Username:        "Ana",
		Password:        "Secret1",
		ConfirmPassword: "Secret1",
		Email:           "ana@example.com",
		FirstName:       "Ana",
		ImageURL:        "https://example.com/ana.png",
	}
}

func mustRegisterAndLogin(t *testing.T, engine *LibraryEngine) *models.User {
	t.Helper()

	if _, err := engine.Register(validRegistration()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	user, err := engine.Login("Ana", "Secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return user
}

func TestRegister(t *testing.T) {
	t.Run("creates an account with an empty collection", func(t *testing.T) {
		engine, _ := setupEngine(t)

		user, err := engine.Register(validRegistration())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID == "" {
			t.Error("expected a generated ID")
		}
		if user.Username != "Ana" {
			t.Errorf("expected raw username preserved, got %s", user.Username)
		}
		if len(user.Playlists) != 0 {
			t.Errorf("expected empty playlists, got %#v", user.Playlists)
		}

		current, err := engine.CurrentUser()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if current != nil {
			t.Error("registration must not log the account in")
		}
	})

	t.Run("trims whitespace fields", func(t *testing.T) {
		engine, _ := setupEngine(t)

		params := validRegistration()
		params.Username = "  Ana  "
		params.Email = " ana@example.com "

		user, err := engine.Register(params)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Username != "Ana" || user.Email != "ana@example.com" {
			t.Errorf("expected trimmed fields, got %q / %q", user.Username, user.Email)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		engine, _ := setupEngine(t)

		params := validRegistration()
		params.Email = "   "
		if _, err := engine.Register(params); !errors.Is(err, shared.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("rejects a taken username regardless of case", func(t *testing.T) {
		engine, _ := setupEngine(t)

		if _, err := engine.Register(validRegistration()); err != nil {
			t.Fatalf("first registration failed: %v", err)
		}

		params := validRegistration()
		params.Username = "  ANA "
		if _, err := engine.Register(params); !errors.Is(err, shared.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("availability is checked before password strength", func(t *testing.T) {
		engine, _ := setupEngine(t)

		if _, err := engine.Register(validRegistration()); err != nil {
			t.Fatalf("first registration failed: %v", err)
		}

		params := validRegistration()
		params.Password = "weak"
		params.ConfirmPassword = "weak"
		if _, err := engine.Register(params); !errors.Is(err, shared.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken first, got %v", err)
		}
	})

	t.Run("enforces the password policy", func(t *testing.T) {
		engine, _ := setupEngine(t)

		for _, password := range []string{"Ab1", "secret1", "SECRETS", "Secrets"} {
			params := validRegistration()
			params.Password = password
			params.ConfirmPassword = password
			if _, err := engine.Register(params); !errors.Is(err, shared.ErrWeakPassword) {
				t.Errorf("password %q: expected ErrWeakPassword, got %v", password, err)
			}
		}
	})

	t.Run("rejects a mismatched confirmation", func(t *testing.T) {
		engine, _ := setupEngine(t)

		params := validRegistration()
		params.ConfirmPassword = "Secret2"
		if _, err := engine.Register(params); !errors.Is(err, shared.ErrPasswordMismatch) {
			t.Errorf("expected ErrPasswordMismatch, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("logs in with case-insensitive username", func(t *testing.T) {
		engine, _ := setupEngine(t)
		if _, err := engine.Register(validRegistration()); err != nil {
			t.Fatalf("registration failed: %v", err)
		}

		user, err := engine.Login("  ANA ", "Secret1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Username != "Ana" {
			t.Errorf("expected stored username, got %s", user.Username)
		}

		current, err := engine.CurrentUser()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if current == nil || current.Username != "Ana" {
			t.Errorf("expected current user Ana, got %#v", current)
		}
	})

	t.Run("wrong password and unknown user produce the same error", func(t *testing.T) {
		engine, _ := setupEngine(t)
		if _, err := engine.Register(validRegistration()); err != nil {
			t.Fatalf("registration failed: %v", err)
		}

		if _, err := engine.Login("Ana", "secret1"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
		}
		if _, err := engine.Login("ghost", "Secret1"); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
		}
	})

	t.Run("requires both fields", func(t *testing.T) {
		engine, _ := setupEngine(t)

		if _, err := engine.Login("", "Secret1"); !errors.Is(err, shared.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
		if _, err := engine.Login("Ana", ""); !errors.Is(err, shared.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		engine, _ := setupEngine(t)
		mustRegisterAndLogin(t, engine)

		if err := engine.Logout(); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		current, err := engine.CurrentUser()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if current != nil {
			t.Errorf("expected no current user, got %#v", current)
		}

		if err := engine.Logout(); err != nil {
			t.Errorf("logout without a session must be a no-op, got %v", err)
		}
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the query as last search", func(t *testing.T) {
		engine, catalog := setupEngine(t)
		catalog.Videos = []models.Video{{ID: "vid1", Title: "First"}}

		videos, used, err := engine.Search(ctx, "  lofi beats ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if used != "lofi beats" {
			t.Errorf("expected trimmed query, got %q", used)
		}
		if len(videos) != 1 || videos[0].ID != "vid1" {
			t.Errorf("expected catalog results, got %#v", videos)
		}
	})

	t.Run("empty query falls back to the last search", func(t *testing.T) {
		engine, catalog := setupEngine(t)
		catalog.Videos = []models.Video{{ID: "vid1"}}

		if _, _, err := engine.Search(ctx, "cats"); err != nil {
			t.Fatalf("seed search failed: %v", err)
		}

		_, used, err := engine.Search(ctx, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if used != "cats" {
			t.Errorf("expected restored query, got %q", used)
		}
		if len(catalog.Queries) != 2 || catalog.Queries[1] != "cats" {
			t.Errorf("expected catalog to receive the restored query, got %#v", catalog.Queries)
		}
	})

	t.Run("no query and no history is an error", func(t *testing.T) {
		engine, _ := setupEngine(t)

		if _, _, err := engine.Search(ctx, "   "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("clearing the last search removes the fallback", func(t *testing.T) {
		engine, catalog := setupEngine(t)
		catalog.Videos = []models.Video{}

		if _, _, err := engine.Search(ctx, "cats"); err != nil {
			t.Fatalf("seed search failed: %v", err)
		}
		if err := engine.ClearLastSearch(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if _, _, err := engine.Search(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument after clear, got %v", err)
		}
	})

	t.Run("catalog failures are wrapped", func(t *testing.T) {
		engine, catalog := setupEngine(t)
		catalog.Err = errors.New("boom")

		_, _, err := engine.Search(ctx, "cats")
		if !errors.Is(err, shared.ErrSearchFailed) {
			t.Errorf("expected ErrSearchFailed, got %v", err)
		}
	})

	t.Run("a missing API key passes through unchanged", func(t *testing.T) {
		engine, catalog := setupEngine(t)
		catalog.Err = shared.ErrMissingAPIKey

		_, _, err := engine.Search(ctx, "cats")
		if !errors.Is(err, shared.ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
		if errors.Is(err, shared.ErrSearchFailed) {
			t.Errorf("missing key must not be wrapped as a search failure")
		}
	})
}

func TestAccountRoundTrip(t *testing.T) {
	engine, _ := setupEngine(t)
	mustRegisterAndLogin(t, engine)

	video := models.Video{ID: "vid1", Title: "First", ChannelTitle: "Channel One"}
	if _, err := engine.SaveToNewPlaylist("Favorites", video); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := engine.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := engine.Login("  ana ", "Secret1"); err != nil {
		t.Fatalf("relogin failed: %v", err)
	}

	playlists, err := engine.Playlists()
	if err != nil {
		t.Fatalf("playlists failed: %v", err)
	}
	if len(playlists) != 1 || playlists[0].Name != "Favorites" {
		t.Fatalf("expected persisted playlist, got %#v", playlists)
	}
	if !playlists[0].HasVideo("vid1") {
		t.Error("expected saved video to survive the session")
	}

	savedIn, err := engine.SavedIn("vid1")
	if err != nil {
		t.Fatalf("SavedIn failed: %v", err)
	}
	if len(savedIn) != 1 || savedIn[0] != "Favorites" {
		t.Errorf("expected SavedIn to name the playlist, got %#v", savedIn)
	}
}
