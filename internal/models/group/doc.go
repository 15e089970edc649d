// Package group contains the implementation of interacting with the MongoDB Group collection.
// Groups exist so multiple users can share queues; their lifecycle drives queue fan-out and
// cascading deletes in the services layer.
package group
