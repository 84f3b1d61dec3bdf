// package services defines interface Catalog for interacting with video catalog HTTP APIs
package services

import (
	"context"
	"net/url"
	"regexp"

	"github.com/desertthunder/vidvault/internal/models"
)

// Catalog defines the interface for video catalog providers that can be searched for embeddable videos.
type Catalog interface {
	// Search queries the catalog and returns playable videos with full
	// metadata, filtered down to entries the application may embed.
	Search(ctx context.Context, query string) ([]models.Video, error)

	// Name returns the name of the catalog (e.g., "YouTube")
	Name() string
}

var videoIDPattern = regexp.MustCompile(`(?:v=|/|youtu\.be/)([A-Za-z0-9_-]{6,})`)

// WatchURL builds the public watch page URL for a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// EmbedURL builds the embedded player URL for a video, with autoplay enabled
// and related-video suggestions suppressed.
func EmbedURL(videoID string) string {
	if videoID == "" {
		return ""
	}

	params := url.Values{}
	params.Set("autoplay", "1")
	params.Set("rel", "0")
	params.Set("modestbranding", "1")
	params.Set("playsinline", "1")

	return "https://www.youtube.com/embed/" + url.PathEscape(videoID) + "?" + params.Encode()
}

// ExtractVideoID pulls a video identifier out of a watch, share, or embed URL.
//
// Returns "" when the URL carries no recognizable identifier.
func ExtractVideoID(rawURL string) string {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}
