// package models defines the data model for the video bookmarking service
package models

import (
	"fmt"
	"time"
)

// User is a registered account and the root of its playlist collection.
//
// JSON tags mirror the legacy persisted document schema so exported records
// stay interchangeable with the original store format. The password is stored
// and compared in plaintext, replicating the legacy behavior; see DESIGN.md.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	ImageURL  string     `json:"imageUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	Playlists []Playlist `json:"playlists"`
}

// Validate checks that every required registration field is present.
func (u *User) Validate() error {
	fields := map[string]string{
		"username":   u.Username,
		"password":   u.Password,
		"email":      u.Email,
		"first name": u.FirstName,
		"image URL":  u.ImageURL,
	}
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("missing %s", name)
		}
	}
	return nil
}

// Clone returns an independent deep copy of the user.
//
// The playlist mutator applies mutations to the copy so a failed persist
// never leaves a half-mutated record behind.
func (u *User) Clone() *User {
	clone := *u
	clone.Playlists = make([]Playlist, len(u.Playlists))
	for i, pl := range u.Playlists {
		clone.Playlists[i] = pl.Clone()
	}
	return &clone
}

// EnsurePlaylists normalizes a nil playlist collection to empty.
//
// Applied on every session read, never persisted back.
func (u *User) EnsurePlaylists() *User {
	if u.Playlists == nil {
		u.Playlists = []Playlist{}
	}
	return u
}

// Playlist finds a playlist by ID within the user's collection.
func (u *User) Playlist(id string) *Playlist {
	for i := range u.Playlists {
		if u.Playlists[i].ID == id {
			return &u.Playlists[i]
		}
	}
	return nil
}

// Playlist is an ordered collection of saved videos owned by one user.
//
// Identifiers are derived from creation time ("pl-<unix millis>") and unique
// within a user's collection.
type Playlist struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
	Videos    []SavedVideo `json:"videos"`
}

// Clone returns a deep copy of the playlist.
func (p Playlist) Clone() Playlist {
	clone := p
	clone.Videos = make([]SavedVideo, len(p.Videos))
	copy(clone.Videos, p.Videos)
	return clone
}

// HasVideo reports whether the playlist contains the given catalog video ID.
func (p Playlist) HasVideo(videoID string) bool {
	for _, v := range p.Videos {
		if v.ID == videoID {
			return true
		}
	}
	return false
}

// SavedVideo is a video bookmarked into a playlist. Owned exclusively by its
// containing playlist.
type SavedVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channelTitle"`
	Thumbnail    string    `json:"thumbnail"`
	Duration     string    `json:"duration"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	Category     string    `json:"category"`
	AddedAt      time.Time `json:"addedAt"`
}

// Video is the ephemeral display model projected from a catalog search result.
//
// Constructed per search call, never persisted; saving a video into a playlist
// converts it to a [SavedVideo] via Saved.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnail    string `json:"thumbnail"`
	Duration     string `json:"duration"`
	DurationRaw  string `json:"durationRaw"`
	ViewCount    int64  `json:"viewCount"`
	LikeCount    int64  `json:"likeCount"`
	Category     string `json:"category"`
	PublishedAt  string `json:"publishedAt"`
}

// Saved converts the display model into a playlist entry added at the given time.
func (v Video) Saved(at time.Time) SavedVideo {
	return SavedVideo{
		ID:           v.ID,
		Title:        v.Title,
		ChannelTitle: v.ChannelTitle,
		Thumbnail:    v.Thumbnail,
		Duration:     v.Duration,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		Category:     v.Category,
		AddedAt:      at,
	}
}
