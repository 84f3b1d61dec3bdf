package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints every playlist in the current user's collection.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.engine.Playlists()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Playlists")
	if len(playlists) == 0 {
		return r.writePlain("No playlists yet. Save a search result to create one.\n")
	}

	for _, pl := range playlists {
		r.writePlain("%s  %s (%d videos)", pl.ID, pl.Name, len(pl.Videos))
		if created := formatter.FormatDate(pl.CreatedAt); created != "" {
			r.writePlain("  created %s", created)
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistCreate creates an empty playlist with the given name.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.engine.CreatePlaylist(cmd.StringArg("name"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)

	return r.writePlain("✓ Created playlist %q (%s)\n", playlist.Name, playlist.ID)
}

// PlaylistDelete removes a playlist, accepting an ID or a name.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.engine.FindPlaylist(cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	if err := r.engine.DeletePlaylist(playlist.ID); err != nil {
		return err
	}

	r.logger.Info("playlist deleted", "id", playlist.ID, "name", playlist.Name)

	return r.writePlain("✓ Deleted playlist %q; its videos can be saved again\n", playlist.Name)
}

// PlaylistShow prints a playlist's saved videos, optionally filtered and sorted.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.engine.FindPlaylist(cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	videos := playlist.Videos
	if term := cmd.String("filter"); term != "" {
		videos = tasks.FilterVideos(videos, term)
	}
	if mode := cmd.String("sort"); mode != "" {
		videos = tasks.SortVideos(videos, mode)
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d videos)", playlist.Name, len(videos)))
	for i, v := range videos {
		r.writePlain("%2d. %s\n", i+1, v.Title)
		r.writePlain("    %s • %s • %s views • added %s\n",
			v.ChannelTitle, v.Duration, formatter.FormatCount(v.ViewCount), formatter.FormatDate(v.AddedAt))
	}

	return nil
}

// PlaylistRemove removes one saved video from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.engine.FindPlaylist(cmd.String("playlist"))
	if err != nil {
		return err
	}

	videoID := cmd.String("video")
	if err := r.engine.RemoveVideo(playlist.ID, videoID); err != nil {
		return err
	}

	return r.writePlain("✓ Removed %s from %q\n", videoID, playlist.Name)
}

// PlaylistExport writes the selected playlists to disk concurrently.
//
// Progress updates stream to the output writer as the workers report in;
// the manifest summary prints once the run completes.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	ids := []string{}
	for _, ref := range cmd.StringSlice("id") {
		playlist, err := r.engine.FindPlaylist(ref)
		if err != nil {
			return err
		}
		ids = append(ids, playlist.ID)
	}

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
		close(done)
	}()

	result, err := r.engine.BulkExport(ctx, prog, ids, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(prog)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("Export complete: %d/%d playlists", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("Failed: %d\n", result.FailedExports)
	}
	r.writePlain("Output directory: %s\n", result.OutputDirectory)
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}
