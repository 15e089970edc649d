// Package queue contains the implementation of the polymorphic Queue collection in the MongoDB database.
// The QueueManager struct is responsible for interacting with the Queue collection; it holds one
// document per (media type, owner) pair, where the owner is either a single user or a group.
// All invariant-bearing mutations are single atomic document updates.
package queue
