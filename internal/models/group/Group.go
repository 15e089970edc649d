package group

import "errors"

var (
	ErrGroupNotFound = errors.New("group not found")
)

// Group represents a set of users sharing queues.
// The creator is always a member at creation time.
type Group struct {
	ID      string   `bson:"_id" json:"_id"`
	Name    string   `bson:"name" json:"name"`
	Creator string   `bson:"creator" json:"creator"`
	Members []string `bson:"members" json:"members"`
}
