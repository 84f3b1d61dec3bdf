package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/services"
	"github.com/desertthunder/vidvault/internal/shared"
	"github.com/desertthunder/vidvault/internal/tasks"
)

// APIHandler exposes the library engine as a JSON API.
//
// The handler drives the same session scope as the CLI; there is one current
// user per installation, not per connection.
type APIHandler struct {
	engine *tasks.LibraryEngine
	logger *log.Logger
	mux    *http.ServeMux
}

// NewAPIHandler creates the JSON API handler around the given engine.
func NewAPIHandler(engine *tasks.LibraryEngine, logger *log.Logger) *APIHandler {
	h := &APIHandler{engine: engine, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /api/register", h.handleRegister)
	h.mux.HandleFunc("POST /api/login", h.handleLogin)
	h.mux.HandleFunc("POST /api/logout", h.handleLogout)
	h.mux.HandleFunc("GET /api/session", h.handleSession)
	h.mux.HandleFunc("GET /api/search", h.handleSearch)
	h.mux.HandleFunc("GET /api/playlists", h.handleListPlaylists)
	h.mux.HandleFunc("POST /api/playlists", h.handleCreatePlaylist)
	h.mux.HandleFunc("GET /api/playlists/{id}", h.handleGetPlaylist)
	h.mux.HandleFunc("DELETE /api/playlists/{id}", h.handleDeletePlaylist)
	h.mux.HandleFunc("POST /api/playlists/{id}/videos", h.handleAddVideo)
	h.mux.HandleFunc("DELETE /api/playlists/{id}/videos/{videoID}", h.handleRemoveVideo)

	return h
}

// Routes returns the path prefix this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{"/api/"}
}

// ServeHTTP implements [http.Handler].
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// userView is the API projection of an account. The password never leaves the process.
type userView struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	FirstName string            `json:"firstName"`
	ImageURL  string            `json:"imageUrl"`
	CreatedAt time.Time         `json:"createdAt"`
	Playlists []models.Playlist `json:"playlists"`
}

func viewOf(user *models.User) userView {
	return userView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		ImageURL:  user.ImageURL,
		CreatedAt: user.CreatedAt,
		Playlists: user.Playlists,
	}
}

// videoView augments a search result with its watch and embed URLs.
type videoView struct {
	models.Video
	WatchURL string `json:"watchUrl"`
	EmbedURL string `json:"embedUrl"`
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.logger.Error("failed to encode response", "error", err)
		}
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrMissingField),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrWeakPassword),
		errors.Is(err, shared.ErrPasswordMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrNotLoggedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrUsernameTaken),
		errors.Is(err, shared.ErrAlreadySaved):
		status = http.StatusConflict
	case errors.Is(err, shared.ErrPlaylistNotFound),
		errors.Is(err, shared.ErrVideoNotFound),
		errors.Is(err, shared.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrMissingAPIKey):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}

	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *APIHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Email           string `json:"email"`
		FirstName       string `json:"firstName"`
		ImageURL        string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	user, err := h.engine.Register(tasks.RegisterParams{
		Username:        body.Username,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		Email:           body.Email,
		FirstName:       body.FirstName,
		ImageURL:        body.ImageURL,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, viewOf(user))
}

func (h *APIHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	user, err := h.engine.Login(body.Username, body.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, viewOf(user))
}

func (h *APIHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Logout(); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.engine.RequireUser()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, viewOf(user))
}

func (h *APIHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	videos, query, err := h.engine.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]videoView, len(videos))
	for i, v := range videos {
		views[i] = videoView{
			Video:    v,
			WatchURL: services.WatchURL(v.ID),
			EmbedURL: services.EmbedURL(v.ID),
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"videos": views,
	})
}

func (h *APIHandler) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.engine.Playlists()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, playlists)
}

func (h *APIHandler) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	playlist, err := h.engine.CreatePlaylist(body.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, playlist)
}

func (h *APIHandler) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.engine.Playlist(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, playlist)
}

func (h *APIHandler) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeletePlaylist(r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) handleAddVideo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string       `json:"name"`
		Video models.Video `json:"video"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if body.Video.ID == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "video id is required"})
		return
	}

	playlist, err := h.engine.AddVideo(r.PathValue("id"), body.Name, body.Video)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, playlist)
}

func (h *APIHandler) handleRemoveVideo(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RemoveVideo(r.PathValue("id"), r.PathValue("videoID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
