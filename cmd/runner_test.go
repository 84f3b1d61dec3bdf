package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/repositories"
	"github.com/desertthunder/vidvault/internal/session"
	"github.com/desertthunder/vidvault/internal/shared"
	"github.com/desertthunder/vidvault/internal/tasks"
	tu "github.com/desertthunder/vidvault/internal/testing"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, *tu.MockCatalog) {
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
	catalog := &tu.MockCatalog{}
	engine := tasks.NewLibraryEngine(users, sessions, catalog)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Engine:  engine,
		Catalog: catalog,
		Output:  output,
	})

	return runner, output, catalog
}

func loginTestUser(t *testing.T, runner *Runner) {
	t.Helper()

	_, err := runner.engine.Register(tasks.RegisterParams{
		Username:        "Ana",
		Password:        "Secret1",
		ConfirmPassword: "Secret1",
		Email:           "ana@example.com",
		FirstName:       "Ana",
		ImageURL:        "https://example.com/ana.png",
	})
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	if _, err := runner.engine.Login("Ana", "Secret1"); err != nil {
		t.Fatalf("failed to log in test user: %v", err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "config.toml",
				Catalog:    catalog,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "config.toml" {
				t.Error("expected configPath to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestRunnerActions(t *testing.T) {
	ctx := context.Background()

	t.Run("search prints results with watch URLs", func(t *testing.T) {
		runner, output, catalog := newTestRunner(t)
		catalog.Videos = []models.Video{
			{ID: "vid1", Title: "First", ChannelTitle: "Channel One", Duration: "3:05", ViewCount: 1200},
		}

		app := searchCommand(runner)
		if err := app.Run(ctx, []string{"search", "cats"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, `Results for "cats"`) {
			t.Errorf("expected header, got %s", result)
		}
		if !strings.Contains(result, "First") || !strings.Contains(result, "1,200 views") {
			t.Errorf("expected projected result line, got %s", result)
		}
		if !strings.Contains(result, "https://www.youtube.com/watch?v=vid1") {
			t.Errorf("expected watch URL, got %s", result)
		}
	})

	t.Run("search with save requires a playlist flag", func(t *testing.T) {
		runner, _, catalog := newTestRunner(t)
		catalog.Videos = []models.Video{{ID: "vid1", Title: "First"}}
		loginTestUser(t, runner)

		app := searchCommand(runner)
		err := app.Run(ctx, []string{"search", "--save", "1", "cats"})
		if err == nil {
			t.Fatal("expected error without --playlist")
		}
		if !strings.Contains(err.Error(), "--playlist") {
			t.Errorf("expected playlist flag error, got %v", err)
		}
	})

	t.Run("search saves a result into a new playlist", func(t *testing.T) {
		runner, output, catalog := newTestRunner(t)
		catalog.Videos = []models.Video{
			{ID: "vid1", Title: "First"},
			{ID: "vid2", Title: "Second"},
		}
		loginTestUser(t, runner)

		app := searchCommand(runner)
		if err := app.Run(ctx, []string{"search", "--save", "2", "--playlist", "Favorites", "cats"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), `Saved "Second" to new playlist "Favorites"`) {
			t.Errorf("expected save confirmation, got %s", output.String())
		}

		playlists, err := runner.engine.Playlists()
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(playlists) != 1 || playlists[0].Name != "Favorites" || !playlists[0].HasVideo("vid2") {
			t.Errorf("expected persisted save, got %+v", playlists)
		}
	})

	t.Run("playlist lifecycle through the command surface", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)
		loginTestUser(t, runner)

		app := playlistCommand(runner)

		if err := app.Run(ctx, []string{"playlist", "create", "Watch Later"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if !strings.Contains(output.String(), `Created playlist "Watch Later"`) {
			t.Errorf("expected create confirmation, got %s", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"playlist", "list"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Watch Later (0 videos)") {
			t.Errorf("expected playlist in listing, got %s", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"playlist", "delete", "Watch Later"}); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if !strings.Contains(output.String(), `Deleted playlist "Watch Later"`) {
			t.Errorf("expected delete confirmation, got %s", output.String())
		}
	})

	t.Run("playlist export writes files and a manifest", func(t *testing.T) {
		runner, output, catalog := newTestRunner(t)
		catalog.Videos = []models.Video{{ID: "vid1", Title: "First", ChannelTitle: "Channel One"}}
		loginTestUser(t, runner)

		wd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, wd)

		app := searchCommand(runner)
		if err := app.Run(ctx, []string{"search", "--save", "1", "--playlist", "Favorites", "cats"}); err != nil {
			t.Fatalf("seed save failed: %v", err)
		}

		output.Reset()
		plApp := playlistCommand(runner)
		if err := plApp.Run(ctx, []string{"playlist", "export", "--id", "Favorites", "--format", "json", "--output", "exports"}); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Export complete: 1/1") {
			t.Errorf("expected export summary, got %s", result)
		}
		tu.AssertFileExists(t, filepath.Join("exports", "export_manifest.json"))
	})

	t.Run("whoami reports the logged out state without failing", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		app := authCommand(runner)
		if err := app.Run(ctx, []string{"auth", "whoami"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Not logged in") {
			t.Errorf("expected logged out message, got %s", output.String())
		}
	})

	t.Run("auth register and login confirmations", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		app := authCommand(runner)
		args := []string{
			"auth", "register",
			"-u", "Ana", "-p", "Secret1",
			"-e", "ana@example.com",
			"--first-name", "Ana",
			"--image-url", "https://example.com/ana.png",
		}
		if err := app.Run(ctx, args); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if !strings.Contains(output.String(), "Account created for Ana") {
			t.Errorf("expected register confirmation, got %s", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"auth", "login", "-u", "Ana", "-p", "Secret1"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged in as Ana") {
			t.Errorf("expected login confirmation, got %s", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"auth", "whoami"}); err != nil {
			t.Fatalf("whoami failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged in as Ana (ana@example.com)") {
			t.Errorf("expected account summary, got %s", output.String())
		}
	})

	t.Run("watch prints the canonical URL", func(t *testing.T) {
		runner, output, _ := newTestRunner(t)

		app := watchCommand(runner)
		if err := app.Run(ctx, []string{"watch", "--print", "https://youtu.be/dQw4w9WgXcQ"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(output.String()) != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
			t.Errorf("expected canonical watch URL, got %q", output.String())
		}
	})
}
