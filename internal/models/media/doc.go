// Package media contains the media cache: normalized external-API metadata for the six media kinds,
// stored in one MongoDB collection per kind.
// The MediaManager struct is responsible for interacting with those collections. Records are inserted
// lazily on first enqueue and ranked by their numQueues popularity counter.
// Strings are used for record ids, as they come from the external APIs rather than MongoDB.
package media
