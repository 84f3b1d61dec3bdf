// Package tasks orchestrates account, search, and playlist curation operations.
//
// # Core Operations
//
// [LibraryEngine] owns the application workflows:
//
//  1. Account lifecycle: [LibraryEngine.Register] validates the registration
//     form (required fields, username availability, password strength,
//     confirmation match) and [LibraryEngine.Login] / [LibraryEngine.Logout]
//     drive the session pointer.
//
//  2. Catalog search: [LibraryEngine.Search] queries the configured
//     [services.Catalog], falling back to the remembered last search when the
//     query is empty and storing each query for the next session.
//
//  3. Playlist curation: create, delete, and inspect playlists;
//     [LibraryEngine.AddVideo] enforces the collection-wide duplicate guard
//     and creates the target playlist implicitly when it does not exist yet,
//     [LibraryEngine.RemoveVideo] drops a single bookmark.
//
//  4. Export: [LibraryEngine.BulkExport] writes selected playlists to disk
//     concurrently via a worker pool and records a JSON manifest.
//
// # Persistence Contract
//
// Every write goes through the session manager's copy-mutate-replace path, so
// a failed persist never leaves a half-mutated account behind. Reads resolve
// the current user fresh from the directory on each call.
//
// # Progress Reporting
//
// Long-running operations emit [ProgressUpdate] values on a caller-supplied
// channel. Updates use select with default to prevent blocking.
package tasks
