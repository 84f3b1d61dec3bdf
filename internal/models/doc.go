// Package models defines the persistent and display data model.
//
// [User] owns an ordered collection of [Playlist], each owning its
// [SavedVideo] entries. [Video] is the ephemeral, UI-ready projection of a
// catalog search result and is never persisted.
//
// Username uniqueness is case-insensitive and enforced at registration time
// only; the trimmed, lower-cased form is the directory lookup key everywhere.
package models
