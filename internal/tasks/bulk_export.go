package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/shared"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string // Export format: json, csv, markdown, txt
	OutputDir  string // Base output directory (default: vidvault_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 5)
}

// exportJob pairs a playlist snapshot with its position in the run.
type exportJob struct {
	playlist models.Playlist
	index    int
}

// BulkExport writes every selected playlist of the current user to disk
// concurrently and generates a manifest summarizing the run.
//
// An empty ids slice exports the whole collection. Partial failures are
// recorded per playlist instead of aborting the run.
func (e *LibraryEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*formatter.BulkExportResult, error) {
	user, err := e.RequireUser()
	if err != nil {
		return nil, err
	}

	playlists := user.Playlists
	if len(ids) > 0 {
		playlists = []models.Playlist{}
		for _, id := range ids {
			pl := user.Playlist(id)
			if pl == nil {
				return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
			}
			playlists = append(playlists, *pl)
		}
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("vidvault_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &formatter.BulkExportResult{
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.PlaylistExportEntry, 0, len(playlists)),
	}

	jobs := make(chan exportJob, len(playlists))
	results := make(chan formatter.PlaylistExportEntry, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, pl := range playlists {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(playlists), pl.Name))
			jobs <- exportJob{playlist: pl, index: i}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *LibraryEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- formatter.PlaylistExportEntry,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSinglePlaylist(job.playlist, opts)
	}
}

// exportSinglePlaylist exports a single playlist to the appropriate format.
func exportSinglePlaylist(pl models.Playlist, opts BulkExportOpts) formatter.PlaylistExportEntry {
	result := formatter.PlaylistExportEntry{
		PlaylistID:   pl.ID,
		PlaylistName: pl.Name,
		Success:      false,
		Files:        []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, pl.ID)
		csvRes, err := formatter.WriteCSVExport(&pl, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.VideosFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, pl.ID)

		var imageURL string
		if len(pl.Videos) > 0 {
			imageURL = pl.Videos[0].Thumbnail
		}

		mdRes, err := formatter.WriteMarkdownExport(&pl, outputDir, imageURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_videos.txt", pl.ID))
		written, err := formatter.WriteTextExport(&pl, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", pl.ID))
		written, err := formatter.WriteJSONExport(&pl, jsonPath)
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true
	}
	return result
}
