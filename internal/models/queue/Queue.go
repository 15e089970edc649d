// This file contains the Queue struct and its members.
// A queue is the per-(media type, owner) record of what a user or group wants to consume
// (current) and what they already consumed (history). Both buckets hold media ids that
// resolve against the media collection named by the Media discriminator.

package queue

import (
	"slices"

	"github.com/upnext-app/go-server/internal/models/media"
)

// Bucket names the two id arrays of a queue.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	BucketHistory Bucket = "history"
)

// Queue represents one watch/listen/read queue.
// Group is empty for personal queues; Users is a singleton for personal queues
// and the group's member list for group queues.
type Queue struct {
	ID        string     `bson:"_id" json:"_id"`
	MediaType media.Type `bson:"mediaType" json:"mediaType"`
	Users     []string   `bson:"users" json:"users"`
	Group     string     `bson:"group" json:"group"`
	Current   []string   `bson:"current" json:"current"`
	History   []string   `bson:"history" json:"history"`
	Media     string     `bson:"media" json:"media"`
}

// Contains reports whether the media id appears in either bucket.
// An id is in at most one of current/history at any time.
func (q *Queue) Contains(mediaID string) bool {
	return slices.Contains(q.Current, mediaID) || slices.Contains(q.History, mediaID)
}

// IsPersonal reports whether the queue belongs to a single user rather than a group.
func (q *Queue) IsPersonal() bool {
	return q.Group == ""
}
