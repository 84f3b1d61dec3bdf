package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d videos", len(i.playlist.Videos))
	if created := formatter.FormatDate(i.playlist.CreatedAt); created != "" {
		desc = fmt.Sprintf("%s • created %s", desc, created)
	}
	return desc
}

// videoItem wraps [models.SavedVideo] to implement [list.Item].
type videoItem struct {
	video models.SavedVideo
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := i.video.ChannelTitle
	if i.video.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.video.Duration)
	}
	if i.video.ViewCount > 0 {
		desc = fmt.Sprintf("%s • %s views", desc, formatter.FormatCount(i.video.ViewCount))
	}
	return desc
}
