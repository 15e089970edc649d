// Package clients contains the external media API clients used to search for
// and resolve media before it enters a queue: TMDB for movies and TV shows,
// Spotify for albums and podcasts, IGDB for video games and Google Books for
// books. All clients share the same plumbing (rate limiting, Redis response
// caching with per-kind TTLs, normalization into the models/media record
// shapes) and authenticate, where the upstream requires it, through a
// TokenCache holding a client-credentials token.
package clients
