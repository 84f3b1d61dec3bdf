package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/services"
	"github.com/desertthunder/vidvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog and prints the filtered, projected results.
//
// An empty query repeats the last search. With --save N the Nth result is
// bookmarked into --playlist, creating the playlist when it does not exist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("clear-history") {
		if err := r.engine.ClearLastSearch(); err != nil {
			return err
		}
		return r.writePlain("✓ Search history cleared\n")
	}

	videos, query, err := r.engine.Search(ctx, cmd.StringArg("query"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(videos, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		r.writePlainHeader(fmt.Sprintf("Results for %q", query))
		if len(videos) == 0 {
			r.writePlain("No watchable videos found\n")
		}
		for i, v := range videos {
			r.writePlain("%2d. %s\n", i+1, v.Title)
			r.writePlain("    %s • %s • %s views • %s\n",
				v.ChannelTitle, v.Duration, formatter.FormatCount(v.ViewCount), v.Category)
			r.writePlain("    %s\n", services.WatchURL(v.ID))
		}
	}

	if pick := cmd.Int("save"); pick > 0 {
		return r.saveResult(videos, int(pick), cmd.String("playlist"))
	}

	return nil
}

// saveResult bookmarks one search result into the named playlist.
func (r *Runner) saveResult(videos []models.Video, pick int, target string) error {
	if target == "" {
		return fmt.Errorf("%w: --playlist is required with --save", shared.ErrMissingArgument)
	}
	if pick > len(videos) {
		return fmt.Errorf("%w: result %d of %d", shared.ErrInvalidArgument, pick, len(videos))
	}

	video := videos[pick-1]

	playlist, err := r.engine.FindPlaylist(target)
	if err != nil {
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			return err
		}
		created, err := r.engine.SaveToNewPlaylist(target, video)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Saved %q to new playlist %q (%s)\n", video.Title, created.Name, created.ID)
	}

	updated, err := r.engine.AddVideo(playlist.ID, playlist.Name, video)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Saved %q to %q (%d videos)\n", video.Title, updated.Name, len(updated.Videos))
}
