// Package invitation contains the implementation of interacting with the MongoDB Invitation collection.
// Invitations are how users ask others to join groups; accepting one triggers the group and queue
// membership fan-out in the services layer.
package invitation
