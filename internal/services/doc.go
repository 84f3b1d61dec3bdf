// Package services defines the [Catalog] interface for video catalog providers and implements it for the YouTube Data API v3.
//
// # Catalog Interface
//
// A catalog is anything that can be searched for playable videos; the rest of
// the application consumes [models.Video] values and never sees provider JSON.
//
// # YouTube Implementation
//
// [YouTubeService] calls the public Data API with an API key. A search is a
// three-step pipeline:
//
//  1. /search returns up to one page of video IDs for the query
//  2. /videos fetches snippet, statistics, contentDetails, and status for the
//     whole batch in one call
//  3. /videoCategories maps category IDs to display names, fetched once per
//     process and cached (an unreachable endpoint caches an empty map)
//
// Videos that are not embeddable, are blocked in the configured region, or
// carry an age-restricted rating are dropped before projection. Missing
// metadata gets display defaults: "Untitled" titles, a placeholder thumbnail,
// zero counts, and the "Unknown" category.
//
// Requests are paced by a [rate.Limiter] so bursts of searches stay inside
// API quota.
//
// # Error Handling
//
// Failures use typed errors from the shared package:
//   - [shared.ErrMissingAPIKey] : no API key configured
//   - [shared.ErrAPIRequest] : an HTTP call failed or returned a non-2xx status
package services
