package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidvault/internal/services"
	"github.com/desertthunder/vidvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// Watch opens a video in the default system browser.
//
// Accepts a bare video ID or any URL shape the catalog produces.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("video")
	if ref == "" {
		return fmt.Errorf("%w: video ID or URL", shared.ErrMissingArgument)
	}

	videoID := services.ExtractVideoID(ref)
	if videoID == "" {
		return fmt.Errorf("%w: could not extract a video ID from %q", shared.ErrInvalidArgument, ref)
	}

	url := services.WatchURL(videoID)
	if cmd.Bool("print") {
		return r.writePlain("%s\n", url)
	}

	if err := shared.OpenBrowser(url); err != nil {
		return err
	}

	return r.writePlain("✓ Opened %s\n", url)
}
