// Package server provides HTTP routing, middleware, and the JSON API surface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # JSON API
//
// [APIHandler] exposes the library engine over HTTP for local web frontends:
// registration, login/logout, catalog search, and playlist curation. The API
// drives the same file-backed session as the CLI, so logging in over HTTP and
// over the terminal is the same login.
//
// Sentinel errors from the shared package map onto status codes: validation
// failures become 400, missing logins and bad credentials 401, duplicate
// usernames and already-saved videos 409, unknown playlists and videos 404.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
