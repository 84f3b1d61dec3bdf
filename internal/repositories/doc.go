// Package repositories implements SQLite persistence for the user directory.
//
// [UserRepository] indexes records by normalized (trimmed, lower-cased)
// username, so a whole-record replace touches one row instead of
// reserializing the entire directory. Playlists travel as a JSON document
// column because the playlist mutator's contract is copy-mutate-replace of
// the full user record, never a partial structural edit.
//
// Sequence numbers (via [NextSequence]) preserve insertion order for listings
// independent of uuids and timestamps.
package repositories
