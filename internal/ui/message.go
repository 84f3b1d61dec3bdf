package ui

import (
	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/tasks"
)

// playlistsFetchedMsg carries the current user's playlist collection.
type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

// playlistOpenedMsg carries one playlist's saved videos after a refresh.
type playlistOpenedMsg struct {
	playlist *models.Playlist
	err      error
}

// progressUpdateMsg relays an engine progress event into the Elm loop.
type progressUpdateMsg tasks.ProgressUpdate

// exportCompleteMsg carries the outcome of a bulk export run.
type exportCompleteMsg struct {
	result *formatter.BulkExportResult
	err    error
}
