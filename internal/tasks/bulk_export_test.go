package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/shared"
	th "github.com/desertthunder/vidvault/internal/testing"
)

func seedPlaylists(t *testing.T, engine *LibraryEngine) []models.Playlist {
	t.Helper()
	mustRegisterAndLogin(t, engine)

	if _, err := engine.SaveToNewPlaylist("Favorites", models.Video{ID: "vid1", Title: "First", ChannelTitle: "Channel One", Duration: "3:00"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := engine.CreatePlaylist("Watch Later"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	playlists, err := engine.Playlists()
	if err != nil {
		t.Fatalf("playlists failed: %v", err)
	}
	return playlists
}

func TestBulkExport(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a login", func(t *testing.T) {
		engine, _ := setupEngine(t)

		_, err := engine.BulkExport(ctx, nil, nil, BulkExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrNotLoggedIn) {
			t.Errorf("expected ErrNotLoggedIn, got %v", err)
		}
	})

	t.Run("exports the whole collection as JSON with a manifest", func(t *testing.T) {
		engine, _ := setupEngine(t)
		playlists := seedPlaylists(t, engine)
		outputDir := filepath.Join(t.TempDir(), "exports")

		result, err := engine.BulkExport(ctx, nil, nil, BulkExportOpts{Format: "json", OutputDir: outputDir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if result.TotalPlaylists != 2 || result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("unexpected summary: %+v", result)
		}

		for _, pl := range playlists {
			th.AssertFileExists(t, filepath.Join(outputDir, pl.ID+".json"))
		}

		th.AssertFileExists(t, result.ManifestPath)
		manifest := th.MustReadFile(t, result.ManifestPath)
		if !strings.Contains(manifest, `"format": "json"`) {
			t.Errorf("manifest missing format, got: %s", manifest)
		}
		if !strings.Contains(manifest, `"status": "success"`) {
			t.Errorf("manifest missing success status")
		}
		if !strings.Contains(manifest, "Favorites") || !strings.Contains(manifest, "Watch Later") {
			t.Errorf("manifest missing playlist names")
		}
	})

	t.Run("exports a selected playlist as CSV", func(t *testing.T) {
		engine, _ := setupEngine(t)
		playlists := seedPlaylists(t, engine)
		outputDir := filepath.Join(t.TempDir(), "exports")

		result, err := engine.BulkExport(ctx, nil, []string{playlists[0].ID}, BulkExportOpts{Format: "csv", OutputDir: outputDir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if result.TotalPlaylists != 1 || result.SuccessfulExports != 1 {
			t.Errorf("unexpected summary: %+v", result)
		}

		csvPath := filepath.Join(outputDir, playlists[0].ID+"_videos.csv")
		th.AssertFileExists(t, csvPath)
		if content := th.MustReadFile(t, csvPath); !strings.Contains(content, "First") {
			t.Errorf("CSV missing video data: %s", content)
		}
		th.AssertFileExists(t, filepath.Join(outputDir, playlists[0].ID+"_metadata.json"))
	})

	t.Run("unknown playlist ID fails before writing anything", func(t *testing.T) {
		engine, _ := setupEngine(t)
		seedPlaylists(t, engine)

		_, err := engine.BulkExport(ctx, nil, []string{"pl-missing"}, BulkExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("reports progress on the channel", func(t *testing.T) {
		engine, _ := setupEngine(t)
		seedPlaylists(t, engine)

		progress := make(chan ProgressUpdate, 16)
		_, err := engine.BulkExport(ctx, progress, nil, BulkExportOpts{Format: "txt", OutputDir: filepath.Join(t.TempDir(), "exports")})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		close(progress)

		count := 0
		for update := range progress {
			if update.Phase != ExportPlaylist {
				t.Errorf("unexpected phase %v", update.Phase)
			}
			count++
		}
		if count == 0 {
			t.Error("expected progress updates")
		}
	})
}
