package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/shared"
)

// Sort modes for playlist views.
const (
	SortAZ     = "az"
	SortLikes  = "likes"
	SortNewest = "newest"
)

// Playlists returns the current user's playlist collection.
func (e *LibraryEngine) Playlists() ([]models.Playlist, error) {
	user, err := e.RequireUser()
	if err != nil {
		return nil, err
	}
	return user.Playlists, nil
}

// Playlist resolves one of the current user's playlists by ID.
func (e *LibraryEngine) Playlist(id string) (*models.Playlist, error) {
	user, err := e.RequireUser()
	if err != nil {
		return nil, err
	}

	pl := user.Playlist(id)
	if pl == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return pl, nil
}

// FindPlaylist resolves a playlist by ID, falling back to a case-insensitive
// name match so CLI users can say "Favorites" instead of "pl-1700000000000".
func (e *LibraryEngine) FindPlaylist(idOrName string) (*models.Playlist, error) {
	user, err := e.RequireUser()
	if err != nil {
		return nil, err
	}

	if pl := user.Playlist(idOrName); pl != nil {
		return pl, nil
	}

	for i := range user.Playlists {
		if strings.EqualFold(user.Playlists[i].Name, idOrName) {
			return &user.Playlists[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, idOrName)
}

// CreatePlaylist adds an empty playlist to the current user's collection.
//
// The identifier derives from the creation time ("pl-<unix millis>"). Names
// are not required to be unique.
func (e *LibraryEngine) CreatePlaylist(name string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	if _, err := e.RequireUser(); err != nil {
		return nil, err
	}

	created := models.Playlist{
		ID:        shared.NewPlaylistID(e.now()),
		Name:      name,
		CreatedAt: e.now(),
		Videos:    []models.SavedVideo{},
	}

	if _, err := e.sessions.UpdateCurrentUser(func(u *models.User) {
		u.Playlists = append(u.Playlists, created.Clone())
	}); err != nil {
		return nil, err
	}

	return &created, nil
}

// DeletePlaylist removes a playlist and all its videos.
func (e *LibraryEngine) DeletePlaylist(id string) error {
	user, err := e.RequireUser()
	if err != nil {
		return err
	}
	if user.Playlist(id) == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	_, err = e.sessions.UpdateCurrentUser(func(u *models.User) {
		kept := make([]models.Playlist, 0, len(u.Playlists))
		for _, pl := range u.Playlists {
			if pl.ID != id {
				kept = append(kept, pl)
			}
		}
		u.Playlists = kept
	})
	return err
}

// AddVideo bookmarks a search result into a playlist.
//
// A video already saved anywhere in the collection is rejected with
// [shared.ErrAlreadySaved]. When no playlist with the given ID exists, one is
// created on the fly with the given name, covering the "create new playlist"
// path of the save dialog. An unknown ID with no name to create under is
// reported as not found instead of minting a nameless playlist.
func (e *LibraryEngine) AddVideo(playlistID, playlistName string, video models.Video) (*models.Playlist, error) {
	playlistName = strings.TrimSpace(playlistName)

	user, err := e.RequireUser()
	if err != nil {
		return nil, err
	}
	if user.Playlist(playlistID) == nil && playlistName == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	savedIn, err := e.SavedIn(video.ID)
	if err != nil {
		return nil, err
	}
	if len(savedIn) > 0 {
		return nil, fmt.Errorf("%w: saved in %s", shared.ErrAlreadySaved, strings.Join(savedIn, ", "))
	}

	now := e.now()
	updated, err := e.sessions.UpdateCurrentUser(func(u *models.User) {
		pl := u.Playlist(playlistID)
		if pl == nil {
			u.Playlists = append(u.Playlists, models.Playlist{
				ID:        playlistID,
				Name:      playlistName,
				CreatedAt: now,
				Videos:    []models.SavedVideo{},
			})
			pl = &u.Playlists[len(u.Playlists)-1]
		}
		pl.Videos = append(pl.Videos, video.Saved(now))
	})
	if err != nil {
		return nil, err
	}

	return updated.Playlist(playlistID), nil
}

// SaveToNewPlaylist creates a playlist named name and bookmarks the video into it.
func (e *LibraryEngine) SaveToNewPlaylist(name string, video models.Video) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	return e.AddVideo(shared.NewPlaylistID(e.now()), name, video)
}

// RemoveVideo drops a bookmarked video from a playlist.
func (e *LibraryEngine) RemoveVideo(playlistID, videoID string) error {
	user, err := e.RequireUser()
	if err != nil {
		return err
	}

	pl := user.Playlist(playlistID)
	if pl == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	if !pl.HasVideo(videoID) {
		return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}

	_, err = e.sessions.UpdateCurrentUser(func(u *models.User) {
		target := u.Playlist(playlistID)
		if target == nil {
			return
		}
		kept := make([]models.SavedVideo, 0, len(target.Videos))
		for _, v := range target.Videos {
			if v.ID != videoID {
				kept = append(kept, v)
			}
		}
		target.Videos = kept
	})
	return err
}

// FilterVideos returns the videos whose title or channel contains the term,
// case-insensitively. An empty term keeps everything.
func FilterVideos(videos []models.SavedVideo, term string) []models.SavedVideo {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return videos
	}

	filtered := []models.SavedVideo{}
	for _, v := range videos {
		title := strings.ToLower(v.Title)
		channel := strings.ToLower(v.ChannelTitle)
		if strings.Contains(title, term) || strings.Contains(channel, term) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// SortVideos returns a sorted copy of the videos. Modes: [SortAZ] by title,
// [SortLikes] by like count descending, [SortNewest] by added time descending.
// Any other mode keeps the stored order.
func SortVideos(videos []models.SavedVideo, mode string) []models.SavedVideo {
	sorted := make([]models.SavedVideo, len(videos))
	copy(sorted, videos)

	switch mode {
	case SortAZ:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
		})
	case SortLikes:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LikeCount > sorted[j].LikeCount
		})
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].AddedAt.After(sorted[j].AddedAt)
		})
	}

	return sorted
}
