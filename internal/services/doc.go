// Package services implements the remote movie catalog: the TMDB HTTP client and the stateful client the explorer
// reads from.
//
// # Catalog Interface
//
// [Catalog] is the read-only contract the rest of the application depends on: the trending list and a free-text
// search. [TMDBService] implements it against The Movie Database v3 API. Tests substitute a double.
//
// # Credentials
//
// TMDB accepts either a v3 API key, sent as the api_key query parameter, or a v4 read access token. When a token
// is configured the HTTP client is built with [oauth2.StaticTokenSource] so every request carries an
// Authorization: Bearer header.
//
// # Catalog State
//
// [CatalogClient] wraps a Catalog and owns the loading/error/result state of the last request. Every request is
// stamped with a monotonically increasing generation; a response is applied only if no newer request was started
// meanwhile, which makes "last request wins" independent of network timing.
//
// # Error Handling
//
// Failures are classified with sentinel errors from the shared package:
//   - [shared.ErrAPIRequest] : non-success HTTP status
//   - [shared.ErrNetwork] : transport failure (DNS, refused connection, timeout)
//   - [shared.ErrMalformedResponse] : body could not be decoded
//
// CatalogClient reduces all of them to a single human-readable message. Request URLs are never included in
// errors because they can carry the API key.
package services
