// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing a saved library:
//  1. [PlaylistListView] : Browse the current user's playlists
//  2. [VideoListView] : Inspect and remove saved videos
//  3. [ConfirmDeleteView] : Confirm playlist deletion
//  4. [ExportView] : Monitor export progress updates
//  5. [ResultView] : Display the export manifest summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the LibraryEngine, providing non-blocking status reporting during exports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, x, d, e, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
