// This file contains the MediaManager implementation, which is responsible for interacting with the
// per-type media collections in MongoDB (the media cache). Records are created lazily the first time
// something is enqueued and are never deleted here; only the numQueues counter changes afterwards.
//
// The cache is populated on demand from whatever payload the external API adapters supply. It is not
// re-validated against the source of truth. Because two requests can race to insert the same record,
// EnsureExists treats a duplicate-key failure as success.

package media

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upnext-app/go-server/internal/log"
)

type MediaManager struct {
	db     *mongo.Database
	logger *log.Logger
}

// NewMediaManager creates a new MediaManager with the given MongoDB client and logger.
func NewMediaManager(client *mongo.Client, logger *log.Logger) *MediaManager {
	return &MediaManager{
		db:     client.Database("upnextdb"),
		logger: logger,
	}
}

func (mm *MediaManager) collection(t Type) *mongo.Collection {
	return mm.db.Collection(t.Collection())
}

// FindByID retrieves a record from the cache by media type and id.
// Returns ErrRecordNotFound if no record with that id is cached.
func (mm *MediaManager) FindByID(ctx context.Context, t Type, id string) (Record, error) {
	rec := t.NewRecord()
	err := mm.collection(t).FindOne(ctx, bson.M{"_id": id}).Decode(rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// EnsureExists inserts the record if no record with its id is cached yet.
// A duplicate-key failure means another request already inserted the same
// record, so it is swallowed rather than reported.
func (mm *MediaManager) EnsureExists(ctx context.Context, rec Record) error {
	_, err := mm.collection(rec.Kind()).InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			mm.logger.Debugf("Record %s already cached in %s", rec.RecordID(), rec.Kind().Collection())
			return nil
		}
		return fmt.Errorf("failed to cache %s record %s: %w", rec.Kind(), rec.RecordID(), err)
	}
	return nil
}

// AdjustQueueCount atomically adds delta (normally +1 or -1) to the record's
// numQueues counter. The counter is best-effort: deletes decrement without
// checking that the id was actually in the bucket.
func (mm *MediaManager) AdjustQueueCount(ctx context.Context, t Type, id string, delta int) error {
	_, err := mm.collection(t).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"numQueues": delta}},
	)
	if err != nil {
		return fmt.Errorf("failed to adjust queue count for %s record %s: %w", t, id, err)
	}
	return nil
}

// MostQueued returns up to limit records of the given type, most-queued first.
// Used for the per-type "popular" listings.
func (mm *MediaManager) MostQueued(ctx context.Context, t Type, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "numQueues", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mm.collection(t).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	for cursor.Next(ctx) {
		rec := t.NewRecord()
		if err := cursor.Decode(rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cursor.Err()
}
