// This file contains the QueueManager implementation, which is responsible for interacting with the
// MongoDB Queue collection. The QueueManager struct contains a pointer to the upnextdb.Queue MongoDB
// collection and a logger. Interaction with queues is almost always by ID, as the ID is unique.
//
// Every mutation that carries an invariant (set membership of current/history/users) is expressed as
// a single atomic document update ($addToSet, $pull) rather than a read-modify-write pair, so that
// concurrent requests serialize at the store. The manager never touches the media cache; pairing
// queue mutations with counter updates is the queue engine's job.

package queue

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
)

// Custom errors
var (
	// ErrQueueNotFound is returned when no queue matches the given id or owner filter.
	ErrQueueNotFound = errors.New("queue not found")
	// ErrQueueAlreadyExists is returned when a queue with the same ID already exists.
	ErrQueueAlreadyExists = errors.New("queue already exists")
)

type QueueManager struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewQueueManager creates a new QueueManager with the given MongoDB client and logger.
func NewQueueManager(client *mongo.Client, logger *log.Logger) *QueueManager {
	db := client.Database("upnextdb")
	return &QueueManager{
		collection: db.Collection("Queue"),
		logger:     logger,
	}
}

// Create inserts a new queue document.
// Returns ErrQueueAlreadyExists if a queue with the same id exists.
func (qm *QueueManager) Create(ctx context.Context, q *Queue) error {
	_, err := qm.collection.InsertOne(ctx, q)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrQueueAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID retrieves a queue by its id. Returns ErrQueueNotFound if absent.
func (qm *QueueManager) FindByID(ctx context.Context, queueID string) (*Queue, error) {
	var q Queue
	err := qm.collection.FindOne(ctx, bson.M{"_id": queueID}).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQueueNotFound
		}
		return nil, err
	}
	return &q, nil
}

// ownerFilter matches the unique queue for a media type and owner.
// An empty group means the user's personal queue.
func ownerFilter(t media.Type, username, group string) bson.M {
	return bson.M{
		"mediaType": t,
		"users":     username,
		"group":     group,
	}
}

// FindByOwner retrieves the unique queue matching media type + username-in-users + group.
// Returns ErrQueueNotFound if no match exists.
func (qm *QueueManager) FindByOwner(ctx context.Context, t media.Type, username, group string) (*Queue, error) {
	var q Queue
	err := qm.collection.FindOne(ctx, ownerFilter(t, username, group)).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQueueNotFound
		}
		return nil, err
	}
	return &q, nil
}

// findOneAndUpdate applies the mutation to the queue matching filter and returns the
// updated document. Returns ErrQueueNotFound if no queue matched.
func (qm *QueueManager) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*Queue, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var q Queue
	err := qm.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrQueueNotFound
		}
		return nil, err
	}
	return &q, nil
}

// AddToCurrent atomically adds the media id to the queue's current set.
// Safe under concurrent identical adds: $addToSet makes the second add a no-op.
func (qm *QueueManager) AddToCurrent(ctx context.Context, queueID, mediaID string) (*Queue, error) {
	return qm.findOneAndUpdate(ctx,
		bson.M{"_id": queueID},
		bson.M{"$addToSet": bson.M{"current": mediaID}},
	)
}

// MoveToHistory atomically pulls the given ids out of current and adds them to
// the history set, in one document update. Every given id lands in history even
// if it was never in current, and re-moved ids do not duplicate.
func (qm *QueueManager) MoveToHistory(ctx context.Context, queueID string, mediaIDs []string) (*Queue, error) {
	return qm.findOneAndUpdate(ctx,
		bson.M{"_id": queueID},
		bson.M{
			"$pull":     bson.M{"current": bson.M{"$in": mediaIDs}},
			"$addToSet": bson.M{"history": bson.M{"$each": mediaIDs}},
		},
	)
}

// PullFromBucket atomically removes the media id from the named bucket.
// The pull is a no-op if the id is not present; the queue itself must exist.
func (qm *QueueManager) PullFromBucket(ctx context.Context, queueID string, bucket Bucket, mediaID string) (*Queue, error) {
	return qm.findOneAndUpdate(ctx,
		bson.M{"_id": queueID},
		bson.M{"$pull": bson.M{string(bucket): mediaID}},
	)
}

// AddUser atomically adds the username to the users set of the group's queue for
// the given media type.
func (qm *QueueManager) AddUser(ctx context.Context, t media.Type, group, username string) (*Queue, error) {
	return qm.findOneAndUpdate(ctx,
		bson.M{"mediaType": t, "group": group},
		bson.M{"$addToSet": bson.M{"users": username}},
	)
}

// RemoveUser atomically removes the username from the users set of the group's
// queue for the given media type. The queue itself persists.
func (qm *QueueManager) RemoveUser(ctx context.Context, t media.Type, group, username string) (*Queue, error) {
	return qm.findOneAndUpdate(ctx,
		bson.M{"mediaType": t, "group": group},
		bson.M{"$pull": bson.M{"users": username}},
	)
}

// DeleteByGroup deletes all queues of the given media type owned by the group.
// Returns the number of deleted queues.
func (qm *QueueManager) DeleteByGroup(ctx context.Context, t media.Type, group string) (int64, error) {
	result, err := qm.collection.DeleteMany(ctx, bson.M{"mediaType": t, "group": group})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByOwner deletes all queues matching media type + username + group.
// With an empty group this removes the user's personal queue for that type.
func (qm *QueueManager) DeleteByOwner(ctx context.Context, t media.Type, username, group string) (int64, error) {
	result, err := qm.collection.DeleteMany(ctx, ownerFilter(t, username, group))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
